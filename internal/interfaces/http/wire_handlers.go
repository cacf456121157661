package http

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances.
type allHandlers struct {
	paymentHandler      *handlers.PaymentHandler
	streamHandler       *handlers.ActivationStreamHandler
	webhookHandler      *handlers.WebhookHandler
	accountHandler      *handlers.AccountHandler
	adminPaymentHandler *handlers.AdminPaymentHandler
	healthHandler       *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	var pinger handlers.Pinger
	if sqlDB, err := c.db.DB(); err == nil {
		pinger = sqlDB
	} else {
		c.log.Warnw("health check will not ping the database", "error", err)
	}

	c.hdlrs = &allHandlers{
		paymentHandler: handlers.NewPaymentHandler(
			c.ucs.createPixPayment,
			c.ucs.getPaymentStatus,
			c.ucs.verifyActivation,
			c.ucs.linkGuestPayments,
			c.log,
		),
		streamHandler: handlers.NewActivationStreamHandler(
			c.ucs.verifyActivation,
			c.hub,
			handlers.StreamConfig{
				AllowedOrigins: c.cfg.Server.AllowedOrigins,
				MaxDuration:    time.Duration(c.cfg.Activation.PollBudgetSeconds) * time.Second,
			},
			c.log,
		),
		webhookHandler:      handlers.NewWebhookHandler(c.ucs.processWebhook, c.log),
		accountHandler:      handlers.NewAccountHandler(c.ucs.getEntitlement, c.ucs.cancelSubscription, c.log),
		adminPaymentHandler: handlers.NewAdminPaymentHandler(c.ucs.reconcileActivations, c.log),
		healthHandler:       handlers.NewHealthHandler(pinger),
	}
}
