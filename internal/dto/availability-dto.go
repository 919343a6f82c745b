package dto

import "github.com/aarondl/null/v8"

type CreateAvailabilityDTO struct {
	EmployeeID int64       `json:"employee_id" validate:"required,gt=0"`
	Date       string      `json:"date" validate:"required,iso_date"`
	StatusID   int64       `json:"status_id" validate:"required,gt=0"`
	Notes      null.String `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAvailabilityDTO struct {
	Date     null.String `json:"date" validate:"omitempty,iso_date"`
	StatusID null.Int64  `json:"status_id" validate:"omitempty,gt=0"`
	Notes    null.String `json:"notes" validate:"omitempty,max=1000"`
}

// AvailabilityRangeQuery is bound from the query string of the detailed listing and the export.
type AvailabilityRangeQuery struct {
	StartDate  string `query:"start_date" validate:"required,iso_date"`
	EndDate    string `query:"end_date" validate:"required,iso_date"`
	EmployeeID *int64 `query:"employee_id" validate:"omitempty,gt=0"`
}

type AvailabilityDTO struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employee_id"`
	Date       string          `json:"date"`
	StatusID   int64           `json:"status_id"`
	Notes      *string         `json:"notes"`
	Status     *CatalogItemDTO `json:"status,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type AvailabilityEmployeeDTO struct {
	ID              int64          `json:"id"`
	FullName        string         `json:"full_name"`
	DocumentNumber  string         `json:"document_number"`
	OperationalRole CatalogItemDTO `json:"operational_role"`
}

type AvailabilityDetailsDTO struct {
	ID         int64                   `json:"id"`
	EmployeeID int64                   `json:"employee_id"`
	Date       string                  `json:"date"`
	StatusID   int64                   `json:"status_id"`
	Notes      *string                 `json:"notes"`
	Status     *CatalogItemDTO         `json:"status,omitempty"`
	Employee   AvailabilityEmployeeDTO `json:"employee"`
}
