package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterPendingRoutes registra /pending/:store/* y /system/health.
func RegisterPendingRoutes(r gin.IRouter, handler *PendingHandler, auth *permissionHttp.Authenticator) {
	pending := r.Group("/pending/:store", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaPending))
	{
		pending.GET("/tasks", handler.Tasks)
		pending.GET("/insights", handler.Insights)
		pending.GET("/advertisements", handler.Advertisements)
		pending.GET("/analytics", handler.Analytics)
	}
	r.GET("/system/health", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaSystemHealth), handler.Health)
}
