package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterProductivityRoutes registra /productivity (área dashboard).
func RegisterProductivityRoutes(r gin.IRouter, handler *ProductivityHandler, auth *permissionHttp.Authenticator) {
	group := r.Group("/productivity", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaDashboard))
	{
		group.GET("/trend", handler.DailyTrend)
		group.GET("/users", handler.ByUser)
	}
}
