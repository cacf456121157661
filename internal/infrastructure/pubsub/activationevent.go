// Package pubsub relays completed activations across API instances over
// Redis Pub/Sub, so a websocket opened on one instance hears about a
// webhook handled by another.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/goroutine"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

const publishTimeout = 3 * time.Second

// ActivationEvent is the wire form of a completed activation. It carries no
// contact data; subscribers re-read what they need.
type ActivationEvent struct {
	PaymentID       string    `json:"payment_id"`
	OwnerID         string    `json:"owner_id"`
	SubscriptionID  string    `json:"subscription_id"`
	PlanKind        string    `json:"plan_kind"`
	NextPaymentDate time.Time `json:"next_payment_date"`
	ActivatedAt     time.Time `json:"activated_at"`
	InstanceID      string    `json:"instance_id,omitempty"`
}

// ActivationEventPublisher publishes activation events.
type ActivationEventPublisher interface {
	PublishActivation(ctx context.Context, event ActivationEvent) error
}

// ActivationEventSubscriber delivers activation events until ctx ends.
type ActivationEventSubscriber interface {
	SubscribeActivations(ctx context.Context, handler func(event ActivationEvent)) error
}

// RedisActivationEventBus implements both sides on one Redis channel. It is
// also an activation.Listener.
type RedisActivationEventBus struct {
	client     *redis.Client
	channel    string
	logger     logger.Interface
	instanceID string
}

func NewRedisActivationEventBus(client *redis.Client, logger logger.Interface) *RedisActivationEventBus {
	return &RedisActivationEventBus{
		client:     client,
		channel:    constants.ChannelActivationEvents,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this process in published events.
func (b *RedisActivationEventBus) InstanceID() string {
	return b.instanceID
}

// OnActivated publishes ev. Failures are logged; the activation already
// committed and pollers will observe it anyway.
func (b *RedisActivationEventBus) OnActivated(ctx context.Context, ev activation.ActivationCompleted) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_ = b.PublishActivation(ctx, ActivationEvent{
		PaymentID:       ev.PaymentID,
		OwnerID:         ev.OwnerID,
		SubscriptionID:  ev.SubscriptionID,
		PlanKind:        string(ev.PlanKind),
		NextPaymentDate: ev.NextPaymentDate,
		ActivatedAt:     ev.ActivatedAt,
	})
}

func (b *RedisActivationEventBus) PublishActivation(ctx context.Context, event ActivationEvent) error {
	event.InstanceID = b.instanceID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activation event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish activation event",
			"payment_id", event.PaymentID,
			"error", err,
		)
		return fmt.Errorf("failed to publish activation event: %w", err)
	}

	b.logger.Debugw("activation event published",
		"payment_id", event.PaymentID,
		"subscription_id", event.SubscriptionID,
	)
	return nil
}

// SubscribeActivations blocks, reconnecting with backoff, until ctx is done.
func (b *RedisActivationEventBus) SubscribeActivations(ctx context.Context, handler func(event ActivationEvent)) error {
	return b.subscribeWithReconnect(ctx, func(payload string) {
		var event ActivationEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal activation event",
				"payload", payload,
				"error", err,
			)
			return
		}
		if event.PaymentID == "" {
			return
		}
		handler(event)
	})
}

func (b *RedisActivationEventBus) subscribeWithReconnect(ctx context.Context, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("activation subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisActivationEventBus) subscribe(ctx context.Context, handler func(payload string)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.logger.Infow("subscribed to activation channel", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("activation subscriber stopped",
				"channel", b.channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("activation channel closed", "channel", b.channel)
				return nil
			}

			goroutine.SafeGo(b.logger, "activation-event-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}
