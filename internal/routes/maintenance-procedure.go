package routes

import (
	"maintenance-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runMaintenanceProcedureRouter(g *echo.Group, ctrl *controllers.MaintenanceProcedureController) {
	g.GET("/maintenance-procedures/:id", ctrl.FindProcedure)
	g.POST("/maintenance-procedures/:id/disable", ctrl.DisableProcedure)
	g.POST("/maintenance-procedures/:id/enable", ctrl.EnableProcedure)
}
