package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/dto"
	"nutripae-rh/internal/services"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeout   = 30 * time.Second
)

type AvailabilityController struct {
	service services.AvailabilityServiceInterface
	logger  *zap.Logger
}

func NewAvailabilityController(service services.AvailabilityServiceInterface, logger *zap.Logger) *AvailabilityController {
	return &AvailabilityController{service: service, logger: logger}
}

func (c *AvailabilityController) Create(ctx echo.Context) error {
	var d dto.CreateAvailabilityDTO
	if _, err := bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability registered", http.StatusCreated)
}

// rangeQuery reads ?start_date=&end_date=&employee_id=.
func (c *AvailabilityController) rangeQuery(ctx echo.Context) (dto.AvailabilityRangeQuery, error) {
	var (
		q          dto.AvailabilityRangeQuery
		employeeID int64
	)
	err := echo.QueryParamsBinder(ctx).
		String("start_date", &q.StartDate).
		String("end_date", &q.EndDate).
		Int64("employee_id", &employeeID).
		BindError()
	if err != nil {
		return q, apperrors.NewHttpError(http.StatusBadRequest, "Invalid query parameters", err, nil)
	}
	if ctx.QueryParam("employee_id") != "" {
		q.EmployeeID = &employeeID
	}
	if err := ctx.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}

func (c *AvailabilityController) ListDetailed(ctx echo.Context) error {
	q, err := c.rangeQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.ListDetailed(ctx.Request().Context(), q)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availabilities retrieved", http.StatusOK)
}

func (c *AvailabilityController) Export(ctx echo.Context) error {
	q, err := c.rangeQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, exportTimeout)
	defer cancel()

	book, err := c.service.Export(reqCtx, q)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer book.Close()

	fileName := fmt.Sprintf("disponibilidad_%s_%s.xlsx", q.StartDate, q.EndDate)
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return book.Write(ctx.Response().Writer)
}

func (c *AvailabilityController) ListByEmployee(ctx echo.Context) error {
	employeeID, err := idParam(ctx, "employee_id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	skip, limit, err := utils.ParseSkipLimit(ctx.QueryParams())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.ListByEmployee(ctx.Request().Context(), employeeID, skip, limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availabilities retrieved", http.StatusOK)
}

func (c *AvailabilityController) Get(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability retrieved", http.StatusOK)
}

func (c *AvailabilityController) Update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.UpdateAvailabilityDTO
	rawBody, err := bindBody(ctx, &d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Update(ctx.Request().Context(), id, d, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability updated", http.StatusOK)
}

func (c *AvailabilityController) Delete(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Delete(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability deleted", http.StatusOK)
}
