package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/repository"
)

const redisPingTimeout = 3 * time.Second

// repositories holds all repository instances used by the application.
type repositories struct {
	paymentRepo      *repository.PaymentRepository
	subscriptionRepo *repository.SubscriptionRepository
	entitlementRepo  *repository.EntitlementRepository
	webhookEventRepo *repository.WebhookEventRepository
}

func (c *Container) initInfrastructure() {
	c.redis = c.connectRedis()

	c.repos = &repositories{
		paymentRepo:      repository.NewPaymentRepository(c.db),
		subscriptionRepo: repository.NewSubscriptionRepository(c.db),
		entitlementRepo:  repository.NewEntitlementRepository(c.db),
		webhookEventRepo: repository.NewWebhookEventRepository(c.db),
	}
}

// connectRedis returns nil when Redis cannot be reached. The server still
// runs: activation events stay in process and rate limits are not enforced.
func (c *Container) connectRedis() *redis.Client {
	if c.cfg.Redis.Host == "" {
		c.log.Warnw("redis host not set, running without redis")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Warnw("redis unavailable, running without redis",
			"address", c.cfg.Redis.GetAddr(),
			"error", err,
		)
		_ = client.Close()
		return nil
	}

	c.log.Infow("redis connection established", "address", c.cfg.Redis.GetAddr())
	return client
}
