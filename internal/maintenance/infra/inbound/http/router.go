package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterMaintenanceRoutes registra /system/maintenance y /system/state (área system_health).
func RegisterMaintenanceRoutes(r gin.IRouter, handler *MaintenanceHandler, auth *permissionHttp.Authenticator) {
	system := r.Group("/system", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaSystemHealth))
	{
		system.POST("/maintenance/:action", handler.Trigger)
		system.GET("/maintenance", handler.Status)
		system.GET("/state", handler.State)
	}
}
