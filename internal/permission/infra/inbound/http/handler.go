package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/autostock/internal/permission/application"
	"github.com/davicafu/autostock/internal/permission/domain"
	"github.com/davicafu/autostock/pkg/utils"
)

type PermissionHandler struct {
	service *application.ProfileService
}

func NewPermissionHandler(service *application.ProfileService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// Check endpoint GET /permissions/check?area=&role=&level=
func (h *PermissionHandler) Check(c *gin.Context) {
	area := c.Query("area")
	if area == "" {
		utils.SendBadRequest(c, "area is required")
		return
	}

	var level *int
	if raw := c.Query("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.SendBadRequest(c, "level must be an integer")
			return
		}
		level = &v
	}

	c.JSON(http.StatusOK, h.service.Check(domain.Area(area), domain.Role(c.Query("role")), level))
}

// Me endpoint GET /me: principal resuelto y los permisos por área.
func (h *PermissionHandler) Me(c *gin.Context) {
	p, ok := PrincipalFrom(c)
	if !ok {
		utils.SendUnauthorized(c, "authentication required")
		return
	}

	areas := make(map[domain.Area]domain.Decision)
	for area := range h.service.Rules() {
		areas[area] = h.service.Check(area, p.Role, p.Level)
	}
	c.JSON(http.StatusOK, gin.H{"principal": p, "areas": areas})
}

// Rules endpoint GET /permissions/rules
func (h *PermissionHandler) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Rules())
}
