package http

import (
	"time"

	entitlementUsecases "github.com/fabioff30/corretor-ia-v0-sub002/internal/application/entitlement/usecases"
	paymentUsecases "github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	subscriptionUsecases "github.com/fabioff30/corretor-ia-v0-sub002/internal/application/subscription/usecases"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/gateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/qrcode"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/db"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/services/markdown"
)

const paymentDescription = "CorretorIA Premium"

// allUseCases holds all use case instances.
type allUseCases struct {
	createPixPayment     *paymentUsecases.CreatePixPaymentUseCase
	getPaymentStatus     *paymentUsecases.GetPaymentStatusUseCase
	verifyActivation     *paymentUsecases.VerifyActivationUseCase
	linkGuestPayments    *paymentUsecases.LinkGuestPaymentsUseCase
	processWebhook       *paymentUsecases.ProcessWebhookUseCase
	reconcileActivations *paymentUsecases.ReconcileActivationsUseCase
	getEntitlement       *entitlementUsecases.GetEntitlementUseCase
	cancelSubscription   *subscriptionUsecases.CancelSubscriptionUseCase
}

func (c *Container) initUseCases() {
	clock := biztime.SystemClock()

	c.ucs = &allUseCases{
		createPixPayment: paymentUsecases.NewCreatePixPaymentUseCase(
			c.repos.paymentRepo,
			c.gateway,
			qrcode.NewRenderer(),
			markdown.NewPlainTextSanitizer(),
			clock,
			PixPaymentConfig(c.cfg),
			c.log,
		),
		getPaymentStatus: paymentUsecases.NewGetPaymentStatusUseCase(
			c.repos.paymentRepo,
			c.coordinator,
			c.log,
		),
		verifyActivation: paymentUsecases.NewVerifyActivationUseCase(
			c.repos.paymentRepo,
			c.coordinator,
			time.Duration(c.cfg.Activation.PollIntervalSeconds)*time.Second,
			c.log,
		),
		linkGuestPayments: paymentUsecases.NewLinkGuestPaymentsUseCase(
			c.repos.paymentRepo,
			c.repos.subscriptionRepo,
			c.coordinator,
			clock,
			c.log,
		),
		processWebhook: paymentUsecases.NewProcessWebhookUseCase(
			c.coordinator,
			c.repos.webhookEventRepo,
			gateway.NewSignatureVerifier(c.cfg.Gateway.WebhookSecret),
			clock,
			c.log,
		),
		reconcileActivations: paymentUsecases.NewReconcileActivationsUseCase(
			c.repos.paymentRepo,
			c.coordinator,
			c.cfg.Scheduler.BatchSize,
			c.log,
		),
		getEntitlement: entitlementUsecases.NewGetEntitlementUseCase(
			c.repos.entitlementRepo,
			c.log,
		),
		cancelSubscription: subscriptionUsecases.NewCancelSubscriptionUseCase(
			c.repos.subscriptionRepo,
			c.repos.entitlementRepo,
			db.NewTransactionManager(c.db),
			clock,
			c.log,
		),
	}
}

// PixPaymentConfig maps the pricing and gateway sections onto checkout
// settings.
func PixPaymentConfig(cfg *config.Config) paymentUsecases.PixPaymentConfig {
	return paymentUsecases.PixPaymentConfig{
		Prices: map[vo.PlanKind]int64{
			vo.PlanKindMonthly: cfg.Pricing.Monthly,
			vo.PlanKindAnnual:  cfg.Pricing.Annual,
			vo.PlanKindBundle:  cfg.Pricing.Bundle,
		},
		Currency:        cfg.Pricing.Currency,
		TTL:             cfg.Gateway.PaymentTTL(),
		NotificationURL: cfg.Gateway.NotificationURL,
		Description:     paymentDescription,
	}
}
