package http

import (
	"github.com/gin-gonic/gin"

	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
)

// RegisterAdvertisementRoutes registra /advertisements (área advertisements).
func RegisterAdvertisementRoutes(r gin.IRouter, handler *AdvertisementHandler, auth *permissionHttp.Authenticator) {
	ads := r.Group("/advertisements", auth.Authenticate(), auth.RequireArea(permissionDomain.AreaAdvertisements))
	{
		ads.POST("", handler.CreateAdvertisement)
		ads.GET("", handler.ListAdvertisements)
		ads.GET("/:id", handler.GetAdvertisement)
		ads.PATCH("/:id", handler.UpdateAdvertisement)
		ads.DELETE("/:id", handler.DeleteAdvertisement)
	}
}
