package gateway

import (
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

// New returns the HTTP client, or the in-memory gateway when no base URL is
// configured (local development).
func New(cfg config.GatewayConfig, log logger.Interface) paymentgateway.PaymentGateway {
	if cfg.BaseURL == "" {
		log.Warnw("gateway base_url not set, using in-memory gateway")
		return paymentgateway.NewMockGateway()
	}
	return NewPixClient(cfg, log)
}
