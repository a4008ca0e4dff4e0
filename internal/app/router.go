package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adHttp "github.com/davicafu/autostock/internal/advertisement/infra/inbound/http"
	inventoryHttp "github.com/davicafu/autostock/internal/inventory/infra/inbound/http"
	maintenanceHttp "github.com/davicafu/autostock/internal/maintenance/infra/inbound/http"
	mediaHttp "github.com/davicafu/autostock/internal/media/infra/inbound/http"
	notificationHttp "github.com/davicafu/autostock/internal/notification/infra/inbound/http"
	pendingHttp "github.com/davicafu/autostock/internal/pending/infra/inbound/http"
	permissionHttp "github.com/davicafu/autostock/internal/permission/infra/inbound/http"
	productivityHttp "github.com/davicafu/autostock/internal/productivity/infra/inbound/http"
	workflowHttp "github.com/davicafu/autostock/internal/workflow/infra/inbound/http"
)

// Router registra todas las rutas HTTP sobre un engine nuevo.
func (c *Container) Router() *gin.Engine {
	router := gin.Default()

	auth := permissionHttp.NewAuthenticator(permissionHttp.AuthConfig{
		JWTSecret:    c.Config.JWTSecret,
		AllowHeaders: c.Config.AuthAllowHeaders,
	}, c.Profiles, c.Log)

	permissionHttp.RegisterPermissionRoutes(router, permissionHttp.NewPermissionHandler(c.Profiles), auth)
	workflowHttp.RegisterWorkflowRoutes(router, workflowHttp.NewWorkflowHandler(c.Coordinator), auth)
	pendingHttp.RegisterPendingRoutes(router, pendingHttp.NewPendingHandler(c.Aggregator), auth)
	maintenanceHttp.RegisterMaintenanceRoutes(router, maintenanceHttp.NewMaintenanceHandler(c.Maintenance), auth)
	adHttp.RegisterAdvertisementRoutes(router, adHttp.NewAdvertisementHandler(c.Advertisements), auth)
	inventoryHttp.RegisterVehicleRoutes(router, inventoryHttp.NewVehicleHandler(c.Inventory), auth)
	mediaHttp.RegisterMediaRoutes(router, mediaHttp.NewMediaHandler(c.Media), auth)
	notificationHttp.RegisterNotificationRoutes(router, notificationHttp.NewNotificationHandler(c.Notifications), auth)
	productivityHttp.RegisterProductivityRoutes(router, productivityHttp.NewProductivityHandler(c.Productivity), auth)

	if c.MediaDir != "" {
		router.Static(MediaURLPrefix, c.MediaDir)
	}

	router.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.PingContext(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
