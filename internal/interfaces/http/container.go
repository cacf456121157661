package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/auth"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/permission"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/pubsub"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers of the HTTP server. Shutdown releases what it started.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	createRateLimiter    *middleware.RateLimiter
	verifyRateLimiter    *middleware.RateLimiter

	// Services
	jwtService  *auth.JWTService
	enforcer    *permission.Enforcer
	gateway     paymentgateway.PaymentGateway
	coordinator *activation.Coordinator
	hub         *pubsub.ActivationHub

	// Cross-instance activation relay; nil without Redis
	eventBus         *pubsub.RedisActivationEventBus
	eventBusCancel   context.CancelFunc
	eventBusCancelMu sync.Mutex
}

// NewContainer wires every dependency of the HTTP server.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	c.initInfrastructure()

	if err := c.initServices(); err != nil {
		return nil, err
	}

	c.initUseCases()
	c.initHandlers()

	return c, nil
}

// Engine returns the gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown stops the activation relay and closes the Redis client.
func (c *Container) Shutdown() {
	c.eventBusCancelMu.Lock()
	if c.eventBusCancel != nil {
		c.eventBusCancel()
		c.eventBusCancel = nil
	}
	c.eventBusCancelMu.Unlock()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
