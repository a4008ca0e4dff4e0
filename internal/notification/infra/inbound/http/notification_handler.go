package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/notification/application"
	"github.com/davicafu/autostock/internal/notification/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	"github.com/davicafu/autostock/pkg/utils"
)

type NotificationHandler struct {
	service *application.NotificationService
}

func NewNotificationHandler(service *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List endpoint GET /notifications?unread=true&limit=&offset=
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unread := c.Query("unread") == "true"

	list, err := h.service.List(c.Request.Context(), permissionHttp.UserID(c), unread, limit, offset)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkRead endpoint POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.service.MarkRead(c.Request.Context(), c.Param("id"), permissionHttp.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			utils.SendNotFound(c, "notification not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterNotificationRoutes registra las rutas; requieren usuario autenticado.
func RegisterNotificationRoutes(r gin.IRouter, handler *NotificationHandler, auth *permissionHttp.Authenticator) {
	group := r.Group("/notifications", auth.Authenticate())
	{
		group.GET("", handler.List)
		group.POST("/:id/read", handler.MarkRead)
	}
}
