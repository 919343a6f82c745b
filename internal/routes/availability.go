package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/authz"
	"nutripae-rh/internal/controllers"
	"nutripae-rh/internal/services"
	"nutripae-rh/pkg/middleware"
)

func runAvailabilityRouter(
	api *echo.Group,
	availabilityService services.AvailabilityServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	availabilityCtrl := controllers.NewAvailabilityController(availabilityService, logger)

	availabilities := api.Group("/availabilities")
	{
		availabilities.POST("", availabilityCtrl.Create, authMW.Require(authz.PermissionCreate))
		availabilities.GET("", availabilityCtrl.ListDetailed, authMW.Require(authz.PermissionList))
		availabilities.GET("/export", availabilityCtrl.Export, authMW.Require(authz.PermissionList))
		availabilities.GET("/employee/:employee_id", availabilityCtrl.ListByEmployee, authMW.Require(authz.PermissionRead))
		availabilities.GET("/:id", availabilityCtrl.Get, authMW.Require(authz.PermissionRead))
		availabilities.PUT("/:id", availabilityCtrl.Update, authMW.Require(authz.PermissionUpdate))
		availabilities.DELETE("/:id", availabilityCtrl.Delete, authMW.Require(authz.PermissionDelete))
	}
}
