package http

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/routes"

	_ "github.com/fabioff30/corretor-ia-v0-sub002/docs"
)

// SetupRoutes registers middlewares and every route group on the engine.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.Health)
	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := c.engine.Group("/api")

	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler:    c.hdlrs.paymentHandler,
		StreamHandler:     c.hdlrs.streamHandler,
		WebhookHandler:    c.hdlrs.webhookHandler,
		AuthMiddleware:    c.authMiddleware,
		CreateRateLimiter: c.createRateLimiter,
		VerifyRateLimiter: c.verifyRateLimiter,
	})

	routes.SetupAccountRoutes(api, &routes.AccountRouteConfig{
		AccountHandler: c.hdlrs.accountHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		AdminPaymentHandler:  c.hdlrs.adminPaymentHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
