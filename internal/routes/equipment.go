package routes

import (
	"maintenance-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runEquipmentRouter(g *echo.Group, ctrl *controllers.EquipmentController) {
	g.GET("/equipment", ctrl.GetEquipments)
	g.GET("/equipment/:id", ctrl.FindEquipment)
	g.POST("/equipment", ctrl.CreateEquipment)
	g.PUT("/equipment/:id", ctrl.UpdateEquipment)
	g.DELETE("/equipment/:id", ctrl.DeleteEquipment)

	g.POST("/equipment/:id/disable", ctrl.DisableEquipment)
	g.POST("/equipment/:id/enable", ctrl.EnableEquipment)
	g.POST("/equipment/:id/archive", ctrl.ArchiveEquipment)
	g.POST("/equipment/:id/readonly", ctrl.MakeReadonly)

	g.POST("/equipment/:id/link", ctrl.LinkEquipment)
	g.POST("/equipment/:id/unlink", ctrl.UnlinkEquipment)
}
