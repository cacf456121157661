package payment

import (
	"context"
	"time"
)

// PaymentRepository is the payment record store. Every state change is a
// conditional write that reports whether this caller performed it, so
// concurrent callers racing the same transition see exactly one winner.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)

	// TransitionToPaid sets status=paid and paid_at only while status is pending.
	TransitionToPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)

	// TransitionToExpired sets status=expired only while status is pending.
	TransitionToExpired(ctx context.Context, id string, at time.Time) (bool, error)

	// BindGuestOwner sets owner_id, linked_at and status=linked only while the
	// record has no owner and status is paid.
	BindGuestOwner(ctx context.Context, id, ownerID string, linkedAt time.Time) (bool, error)

	// FindLatestPaidGuestByEmail returns the most recently paid unowned payment
	// for the contact email, or nil when there is none.
	FindLatestPaidGuestByEmail(ctx context.Context, contactEmail string) (*Payment, error)

	// ListOverduePending returns pending payments whose expiry is before now.
	ListOverduePending(ctx context.Context, now time.Time, limit int) ([]*Payment, error)

	// ListPaidWithoutSubscription returns owned, paid payments that have no
	// subscription record sourced from them.
	ListPaidWithoutSubscription(ctx context.Context, limit int) ([]*Payment, error)
}
