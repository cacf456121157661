// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/handlers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler    *handlers.PaymentHandler
	StreamHandler     *handlers.ActivationStreamHandler
	WebhookHandler    *handlers.WebhookHandler
	AuthMiddleware    *middleware.AuthMiddleware
	CreateRateLimiter *middleware.RateLimiter
	VerifyRateLimiter *middleware.RateLimiter
}

// SetupPaymentRoutes configures checkout, activation polling and the gateway
// webhook. Buyers may be anonymous; a session, when present, binds the
// payment to its owner.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := api.Group("/payments")
	payments.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		payments.POST("/pix", cfg.CreateRateLimiter.Limit(), cfg.PaymentHandler.CreatePix)
		payments.GET("/status", cfg.PaymentHandler.GetStatus)
		payments.GET("/verify", cfg.VerifyRateLimiter.Limit(), cfg.PaymentHandler.Verify)
		payments.GET("/stream", cfg.VerifyRateLimiter.Limit(), cfg.StreamHandler.Stream)
	}

	linked := api.Group("/payments")
	linked.Use(cfg.AuthMiddleware.RequireAuth())
	{
		linked.POST("/link-guest", cfg.PaymentHandler.LinkGuest)
	}

	// The gateway authenticates with a signature header, not a session.
	api.POST("/webhooks/payments", cfg.WebhookHandler.Handle)
}
