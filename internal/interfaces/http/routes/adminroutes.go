package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/permission"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/handlers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for operator routes.
type AdminRouteConfig struct {
	AdminPaymentHandler  *handlers.AdminPaymentHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures operator routes. Every route needs a session
// and a casbin grant on the payment resource.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.POST("/payments/:id/reconcile",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourcePayment, permission.ActionReconcile),
			cfg.AdminPaymentHandler.Reconcile,
		)
	}
}
