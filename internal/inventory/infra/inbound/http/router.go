package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterVehicleRoutes registra /vehicles (área inventory; la venta exige además sales).
func RegisterVehicleRoutes(r gin.IRouter, handler *VehicleHandler, auth *permissionHttp.Authenticator) {
	vehicles := r.Group("/vehicles", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaInventory))
	{
		vehicles.POST("", handler.CreateVehicle)
		vehicles.GET("", handler.ListVehicles)
		vehicles.GET("/:id", handler.GetVehicle)
		vehicles.PATCH("/:id", handler.UpdateVehicle)
		vehicles.PUT("/:id/status", handler.ChangeStatus)
		vehicles.GET("/:id/history", handler.History)
		vehicles.POST("/:id/sale", auth.RequireArea(permissionDomain.AreaSales), handler.RecordSale)
	}
}
