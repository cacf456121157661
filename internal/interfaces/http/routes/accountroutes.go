package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/handlers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
)

// AccountRouteConfig holds dependencies for the signed-in account routes.
type AccountRouteConfig struct {
	AccountHandler *handlers.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupAccountRoutes(api *gin.RouterGroup, cfg *AccountRouteConfig) {
	me := api.Group("/me")
	me.Use(cfg.AuthMiddleware.RequireAuth())
	{
		me.GET("/entitlement", cfg.AccountHandler.GetEntitlement)
	}

	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscriptions.POST("/current/cancel", cfg.AccountHandler.CancelSubscription)
	}
}
