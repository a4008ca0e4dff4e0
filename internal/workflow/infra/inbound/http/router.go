package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterWorkflowRoutes registra /workflow; cada acción exige el área de su recurso.
func RegisterWorkflowRoutes(r gin.IRouter, handler *WorkflowHandler, auth *permissionHttp.Authenticator) {
	wf := r.Group("/workflow", auth.Authenticate())
	{
		wf.POST("/advertisements/:id/publish", auth.RequireArea(permissionDomain.AreaAdvertisements), handler.PublishAdvertisement)
		wf.POST("/insights/:id/resolve", auth.RequireArea(permissionDomain.AreaInsights), handler.ResolveInsight)
		wf.POST("/tasks", auth.RequireArea(permissionDomain.AreaPending), handler.CreateTask)
		wf.GET("/inflight", auth.RequireArea(permissionDomain.AreaPending), handler.InFlight)
		wf.GET("/inflight/:resource/:id", auth.RequireArea(permissionDomain.AreaPending), handler.InFlightItem)
	}
}
