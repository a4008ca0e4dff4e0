package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/productivity/application"
	"github.com/davicafu/autostock/internal/productivity/domain"
	"github.com/davicafu/autostock/pkg/utils"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

const dateLayout = "2006-01-02"

// defaultWindow es el rango cuando no se indica start.
const defaultWindow = 30 * 24 * time.Hour

type ProductivityHandler struct {
	service *application.ProductivityService
	now     func() time.Time
}

func NewProductivityHandler(service *application.ProductivityService) *ProductivityHandler {
	return &ProductivityHandler{service: service, now: time.Now}
}

// parseQuery lee ?start=YYYY-MM-DD&end=YYYY-MM-DD&store=. end es inclusivo.
func (h *ProductivityHandler) parseQuery(c *gin.Context) (time.Time, time.Time, sharedDomain.Store, bool) {
	end := domain.Day(h.now()).AddDate(0, 0, 1)
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid end date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, "", false
		}
		end = t.AddDate(0, 0, 1)
	}
	start := end.Add(-defaultWindow)
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid start date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, "", false
		}
		start = t
	}
	store, err := sharedDomain.ParseStore(c.DefaultQuery("store", string(sharedDomain.StoreAll)))
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return time.Time{}, time.Time{}, "", false
	}
	return start, end, store, true
}

func sendError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidRange) {
		utils.SendBadRequest(c, err.Error())
		return
	}
	utils.SendInternalServerError(c, err.Error())
}

// DailyTrend endpoint GET /productivity/trend
func (h *ProductivityHandler) DailyTrend(c *gin.Context) {
	start, end, store, ok := h.parseQuery(c)
	if !ok {
		return
	}
	trend, err := h.service.DailyTrend(c.Request.Context(), start, end, store)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// ByUser endpoint GET /productivity/users
func (h *ProductivityHandler) ByUser(c *gin.Context) {
	start, end, store, ok := h.parseQuery(c)
	if !ok {
		return
	}
	users, err := h.service.ByUser(c.Request.Context(), start, end, store)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
