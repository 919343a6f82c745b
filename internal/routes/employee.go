package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/authz"
	"nutripae-rh/internal/controllers"
	"nutripae-rh/internal/services"
	"nutripae-rh/pkg/middleware"
)

func runEmployeeRouter(
	api *echo.Group,
	employeeService services.EmployeeServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	employeeCtrl := controllers.NewEmployeeController(employeeService, logger)

	employees := api.Group("/employees")
	{
		employees.POST("", employeeCtrl.Create, authMW.Require(authz.PermissionCreate))
		employees.GET("", employeeCtrl.List, authMW.Require(authz.PermissionList))
		employees.GET("/:id", employeeCtrl.Get, authMW.Require(authz.PermissionRead))
		employees.PUT("/:id", employeeCtrl.Update, authMW.Require(authz.PermissionUpdate))
		employees.POST("/:id/terminate", employeeCtrl.Terminate, authMW.Require(authz.PermissionUpdate))
		employees.DELETE("/:id", employeeCtrl.Delete, authMW.Require(authz.PermissionDelete))
	}
}
