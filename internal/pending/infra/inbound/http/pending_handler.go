package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/pending/application"
	"github.com/davicafu/autostock/pkg/utils"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// PendingHandler expone las lecturas del agregador.
type PendingHandler struct {
	aggregator *application.Aggregator
}

func NewPendingHandler(aggregator *application.Aggregator) *PendingHandler {
	return &PendingHandler{aggregator: aggregator}
}

func storeParam(c *gin.Context) (sharedDomain.Store, bool) {
	store, err := sharedDomain.ParseStore(c.Param("store"))
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return "", false
	}
	return store, true
}

// Tasks endpoint GET /pending/:store/tasks
func (h *PendingHandler) Tasks(c *gin.Context) {
	store, ok := storeParam(c)
	if !ok {
		return
	}
	tasks, err := h.aggregator.ListPendingTasks(c.Request.Context(), store)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Insights endpoint GET /pending/:store/insights
func (h *PendingHandler) Insights(c *gin.Context) {
	store, ok := storeParam(c)
	if !ok {
		return
	}
	insights, err := h.aggregator.ListPendingInsights(c.Request.Context(), store)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, insights)
}

// Advertisements endpoint GET /pending/:store/advertisements
func (h *PendingHandler) Advertisements(c *gin.Context) {
	store, ok := storeParam(c)
	if !ok {
		return
	}
	ads, err := h.aggregator.ListUnpublishedAdvertisements(c.Request.Context(), store)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ads)
}

// Analytics endpoint GET /pending/:store/analytics
func (h *PendingHandler) Analytics(c *gin.Context) {
	store, ok := storeParam(c)
	if !ok {
		return
	}
	analytics, err := h.aggregator.GetPendingAnalytics(c.Request.Context(), store)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Health endpoint GET /system/health
func (h *PendingHandler) Health(c *gin.Context) {
	health, err := h.aggregator.GetSystemHealth(c.Request.Context())
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, health)
}
