package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/dto"
	"nutripae-rh/internal/entities"
	"nutripae-rh/internal/services"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

type EmployeeController struct {
	service services.EmployeeServiceInterface
	logger  *zap.Logger
}

func NewEmployeeController(service services.EmployeeServiceInterface, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{service: service, logger: logger}
}

func (c *EmployeeController) Create(ctx echo.Context) error {
	var d dto.CreateEmployeeDTO
	if _, err := bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employee created", http.StatusCreated)
}

// List supports ?skip=&limit=&search=&is_active=.
func (c *EmployeeController) List(ctx echo.Context) error {
	skip, limit, err := utils.ParseSkipLimit(ctx.QueryParams())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := entities.EmployeeFilter{
		Skip:   skip,
		Limit:  limit,
		Search: ctx.QueryParam("search"),
	}
	if raw := ctx.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidArgument("is_active must be true or false"), c.logger)
		}
		filter.OnlyActive = &active
	}

	result, err := c.service.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employees retrieved", http.StatusOK)
}

func (c *EmployeeController) Get(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employee retrieved", http.StatusOK)
}

func (c *EmployeeController) Update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.UpdateEmployeeDTO
	rawBody, err := bindBody(ctx, &d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Update(ctx.Request().Context(), id, d, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employee updated", http.StatusOK)
}

func (c *EmployeeController) Terminate(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.TerminateEmployeeDTO
	if _, err := bindBody(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Terminate(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employee terminated", http.StatusOK)
}

func (c *EmployeeController) Delete(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.service.Delete(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Employee deleted", http.StatusOK)
}
