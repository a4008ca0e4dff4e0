package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/maintenance/application"
	"github.com/davicafu/autostock/internal/maintenance/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/pkg/utils"
)

type MaintenanceHandler struct {
	service *application.MaintenanceService
}

func NewMaintenanceHandler(service *application.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// Trigger endpoint POST /system/maintenance/:action
func (h *MaintenanceHandler) Trigger(c *gin.Context) {
	action, err := domain.ParseAction(c.Param("action"))
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	if h.service.IsPending() {
		utils.SendConflict(c, "a maintenance action is already running")
		return
	}

	result, err := h.service.Trigger(c.Request.Context(), action, permissionHttp.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnsupported) {
			utils.SendError(c, http.StatusNotImplemented, err.Error())
			return
		}
		utils.SendError(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "result": json.RawMessage(result)})
}

// Status endpoint GET /system/maintenance
func (h *MaintenanceHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pending": h.service.IsPending(),
		"actions": h.service.Statuses(),
	})
}

// State endpoint GET /system/state
func (h *MaintenanceHandler) State(c *gin.Context) {
	state, err := h.service.ConsolidatedState(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnsupported) {
			utils.SendError(c, http.StatusNotImplemented, err.Error())
			return
		}
		utils.SendError(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, json.RawMessage(state))
}
