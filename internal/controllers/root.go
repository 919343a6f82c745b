package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const serviceName = "NutriPAE-RH"

type RootController struct {
	apiPrefix string
	version   string
}

func NewRootController(apiPrefix, version string) *RootController {
	return &RootController{apiPrefix: apiPrefix, version: version}
}

func (c *RootController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func (c *RootController) APIInfo(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"version": c.version,
		"resources": []string{
			c.apiPrefix + "/employees",
			c.apiPrefix + "/availabilities",
			c.apiPrefix + "/options",
		},
	})
}
