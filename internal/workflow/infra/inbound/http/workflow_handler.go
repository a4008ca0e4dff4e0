package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	adDomain "github.com/davicafu/autostock/internal/advertisement/domain"
	pendingDomain "github.com/davicafu/autostock/internal/pending/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/internal/workflow/application"
	"github.com/davicafu/autostock/internal/workflow/domain"
	"github.com/davicafu/autostock/pkg/utils"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// WorkflowHandler dispara acciones a través del coordinador.
type WorkflowHandler struct {
	coordinator *application.Coordinator
}

func NewWorkflowHandler(coordinator *application.Coordinator) *WorkflowHandler {
	return &WorkflowHandler{coordinator: coordinator}
}

// PublishAdvertisement endpoint POST /workflow/advertisements/:id/publish
func (h *WorkflowHandler) PublishAdvertisement(c *gin.Context) {
	h.run(c, domain.PublishAdvertisement{AdvertisementID: c.Param("id")})
}

// ResolveInsight endpoint POST /workflow/insights/:id/resolve
func (h *WorkflowHandler) ResolveInsight(c *gin.Context) {
	h.run(c, domain.ResolveInsight{InsightID: c.Param("id")})
}

// CreateTask endpoint POST /workflow/tasks
func (h *WorkflowHandler) CreateTask(c *gin.Context) {
	var req struct {
		Kind        string `json:"kind" binding:"required"`
		ReferenceID string `json:"reference_id"`
		Store       string `json:"store"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	h.run(c, domain.CreateTask{
		TaskKind:    req.Kind,
		ReferenceID: req.ReferenceID,
		Store:       sharedDomain.Store(req.Store),
		Description: req.Description,
	})
}

// InFlight endpoint GET /workflow/inflight
func (h *WorkflowHandler) InFlight(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.InFlight().Snapshot())
}

// InFlightItem endpoint GET /workflow/inflight/:resource/:id
func (h *WorkflowHandler) InFlightItem(c *gin.Context) {
	target := domain.Target{Resource: c.Param("resource"), ID: c.Param("id")}
	c.JSON(http.StatusOK, gin.H{
		"resource":  target.Resource,
		"id":        target.ID,
		"in_flight": h.coordinator.InFlight().IsInFlight(target),
	})
}

func (h *WorkflowHandler) run(c *gin.Context, action domain.Action) {
	result := h.coordinator.Run(c.Request.Context(), action, permissionHttp.UserID(c))
	c.JSON(statusFor(result), result)
}

func statusFor(r domain.Result) int {
	switch {
	case r.Success:
		return http.StatusOK
	case errors.Is(r.Err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(r.Err, domain.ErrInProgress):
		return http.StatusConflict
	case errors.Is(r.Err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(r.Err, adDomain.ErrAdvertisementNotFound), errors.Is(r.Err, pendingDomain.ErrInsightNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
