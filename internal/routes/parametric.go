package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/controllers"
	"nutripae-rh/internal/services"
)

// runParametricRouter mounts the option lists. They are public: the forms load them before login.
func runParametricRouter(api *echo.Group, parametricService services.ParametricServiceInterface, logger *zap.Logger) {
	parametricCtrl := controllers.NewParametricController(parametricService, logger)

	options := api.Group("/options")
	{
		options.GET("/document-types", parametricCtrl.DocumentTypes)
		options.GET("/genders", parametricCtrl.Genders)
		options.GET("/operational-roles", parametricCtrl.OperationalRoles)
		options.GET("/availability-statuses", parametricCtrl.AvailabilityStatuses)
	}
}
