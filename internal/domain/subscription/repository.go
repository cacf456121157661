package subscription

import (
	"context"
	"time"
)

type SubscriptionRepository interface {
	// CreateIfAbsent inserts sub unless a record with the same source payment
	// already exists. It returns created=false for that case and
	// ErrActiveSubscriptionExists when the owner already holds an authorized
	// record from another payment.
	CreateIfAbsent(ctx context.Context, sub *Subscription) (bool, error)

	GetByID(ctx context.Context, id string) (*Subscription, error)

	// GetBySourcePaymentID returns nil, nil when no record exists.
	GetBySourcePaymentID(ctx context.Context, paymentID string) (*Subscription, error)

	// GetAuthorizedByOwner returns nil, nil when the owner has no authorized record.
	GetAuthorizedByOwner(ctx context.Context, ownerID string) (*Subscription, error)

	// TransitionToCanceled cancels the record only while it is authorized or
	// paused, reporting whether this caller performed the change.
	TransitionToCanceled(ctx context.Context, id string, at time.Time) (bool, error)
}
