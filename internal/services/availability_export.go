package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"nutripae-rh/internal/entities"
	"nutripae-rh/pkg/utils"
)

const availabilitySheet = "Disponibilidad"

var availabilityHeaders = []interface{}{
	"Fecha", "Documento", "Empleado", "Rol operativo", "Estado", "Notas",
}

func availabilityRow(d entities.AvailabilityDetails) []interface{} {
	status := ""
	if d.Status != nil {
		status = d.Status.Name
	}
	return []interface{}{
		utils.FormatDate(d.Date),
		d.Employee.DocumentNumber,
		d.Employee.FullName,
		d.Employee.OperationalRole.Name,
		status,
		utils.SafeDeref(d.Notes),
	}
}

// buildAvailabilityWorkbook writes one row per record, in the order given, under a bold header.
func buildAvailabilityWorkbook(list []entities.AvailabilityDetails) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", availabilitySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(availabilitySheet, "A1", &availabilityHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(availabilitySheet, "A1", "F1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, d := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := availabilityRow(d)
		if err := f.SetSheetRow(availabilitySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(availabilitySheet, "A", "B", 14)
	_ = f.SetColWidth(availabilitySheet, "C", "D", 30)
	_ = f.SetColWidth(availabilitySheet, "F", "F", 50)

	return f, nil
}
