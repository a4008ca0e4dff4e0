package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterMediaRoutes registra las imágenes de vehículos (área inventory) y los avatares.
func RegisterMediaRoutes(r gin.IRouter, handler *MediaHandler, auth *permissionHttp.Authenticator) {
	images := r.Group("/vehicles/:id/images", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaInventory))
	{
		images.POST("", handler.UploadVehicleImage)
		images.GET("", handler.ListVehicleImages)
		images.DELETE("/:imageId", handler.DeleteVehicleImage)
	}

	r.POST("/profiles/:id/avatar", auth.Authenticate(), handler.UploadAvatar)
}
