package http

import (
	"context"
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/auth"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/email"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/gateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/permission"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/pubsub"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/ratelimit"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/goroutine"
)

// createPixPerMinute caps checkout attempts per caller.
const createPixPerMinute = 10

func (c *Container) initServices() error {
	c.jwtService = auth.NewJWTService(
		c.cfg.Auth.JWT.Secret,
		c.cfg.Auth.JWT.Issuer,
		c.cfg.Auth.JWT.AccessExpMinutes,
	)

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := permission.InitPaymentPermissions(enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed payment permissions: %w", err)
	}
	c.enforcer = enforcer

	c.gateway = gateway.New(c.cfg.Gateway, c.log)
	c.hub = pubsub.NewActivationHub()

	opts := []activation.Option{
		activation.WithClock(biztime.SystemClock()),
		activation.WithGatewayTimeout(c.cfg.Gateway.Timeout()),
	}

	if c.redis != nil {
		c.eventBus = pubsub.NewRedisActivationEventBus(c.redis, c.log)
		opts = append(opts, activation.WithListener(c.eventBus))
		c.startActivationRelay()
	} else {
		opts = append(opts, activation.WithListener(c.hub))
	}

	if receipts := email.NewReceiptListenerFromConfig(c.cfg.Email, c.log); receipts != nil {
		opts = append(opts, activation.WithListener(receipts))
	}

	c.coordinator = activation.NewCoordinator(
		c.repos.paymentRepo,
		c.repos.subscriptionRepo,
		c.repos.entitlementRepo,
		c.gateway,
		c.log,
		opts...,
	)

	var limiter ratelimit.RateLimiter
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	}
	c.createRateLimiter = middleware.NewRateLimiter(limiter, "payments:create", createPixPerMinute, c.log)
	c.verifyRateLimiter = middleware.NewRateLimiter(limiter, "payments:verify", c.cfg.Activation.RateLimitPerMinute, c.log)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtService, c.cfg.Auth.CookieName, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	return nil
}

// startActivationRelay feeds activation events from every instance into the
// local hub, so a stream held here sees activations run elsewhere.
func (c *Container) startActivationRelay() {
	ctx, cancel := context.WithCancel(context.Background())

	c.eventBusCancelMu.Lock()
	c.eventBusCancel = cancel
	c.eventBusCancelMu.Unlock()

	goroutine.SafeGo(c.log, "activation-relay", func() {
		err := c.eventBus.SubscribeActivations(ctx, c.hub.Dispatch)
		if err != nil && ctx.Err() == nil {
			c.log.Errorw("activation relay stopped", "error", err)
		}
	})
}
