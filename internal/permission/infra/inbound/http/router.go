package http

import "github.com/gin-gonic/gin"

// RegisterPermissionRoutes registra las rutas de permisos.
// /permissions/check es público: es una evaluación pura sin datos del usuario.
func RegisterPermissionRoutes(r gin.IRouter, handler *PermissionHandler, auth *Authenticator) {
	perms := r.Group("/permissions")
	{
		perms.GET("/check", handler.Check)
		perms.GET("/rules", auth.Authenticate(), handler.Rules)
	}
	r.GET("/me", auth.Authenticate(), handler.Me)
}
