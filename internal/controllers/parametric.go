package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/services"
	"nutripae-rh/pkg/utils"
)

// ParametricController serves the option lists the HR forms are built from.
type ParametricController struct {
	service services.ParametricServiceInterface
	logger  *zap.Logger
}

func NewParametricController(service services.ParametricServiceInterface, logger *zap.Logger) *ParametricController {
	return &ParametricController{service: service, logger: logger}
}

func (c *ParametricController) DocumentTypes(ctx echo.Context) error {
	result, err := c.service.ListDocumentTypes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Document types retrieved", http.StatusOK)
}

func (c *ParametricController) Genders(ctx echo.Context) error {
	result, err := c.service.ListGenders(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Genders retrieved", http.StatusOK)
}

func (c *ParametricController) OperationalRoles(ctx echo.Context) error {
	result, err := c.service.ListOperationalRoles(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Operational roles retrieved", http.StatusOK)
}

func (c *ParametricController) AvailabilityStatuses(ctx echo.Context) error {
	result, err := c.service.ListAvailabilityStatuses(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Availability statuses retrieved", http.StatusOK)
}
