package subscription

import (
	"fmt"
	"time"

	paymentvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
)

// Subscription is the record created by one successful activation. Records
// are never overwritten: once one is canceled, a later activation creates a
// new record beside it.
type Subscription struct {
	id              string
	ownerID         string
	status          vo.SubscriptionStatus
	planKind        paymentvo.PlanKind
	startDate       time.Time
	nextPaymentDate time.Time
	sourcePaymentID string
	canceledAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// ActivationSource is the paid payment a subscription is created from.
type ActivationSource struct {
	PaymentID string
	OwnerID   string
	PlanKind  paymentvo.PlanKind
}

// NewAuthorized creates the authorized record for a paid payment. Its term
// starts at now.
func NewAuthorized(id string, src ActivationSource, now time.Time) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("subscription id is required")
	}
	if src.PaymentID == "" {
		return nil, fmt.Errorf("source payment id is required")
	}
	if src.OwnerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	if !src.PlanKind.IsValid() {
		return nil, fmt.Errorf("invalid plan kind: %s", src.PlanKind)
	}

	return &Subscription{
		id:              id,
		ownerID:         src.OwnerID,
		status:          vo.StatusAuthorized,
		planKind:        src.PlanKind,
		startDate:       now,
		nextPaymentDate: NextPaymentDate(src.PlanKind, now),
		sourcePaymentID: src.PaymentID,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NextPaymentDate adds the plan's billing term to from.
func NextPaymentDate(kind paymentvo.PlanKind, from time.Time) time.Time {
	return from.AddDate(0, 0, kind.BillingDays())
}

// Cancel ends the record. Canceling twice is an error so callers racing a
// conditional update can tell who won.
func (s *Subscription) Cancel(at time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCanceled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.status, vo.StatusCanceled)
	}
	s.status = vo.StatusCanceled
	s.canceledAt = &at
	s.updatedAt = at
	return nil
}

func (s *Subscription) IsAuthorized() bool {
	return s.status.IsAuthorized()
}

// ActiveOwnerKey is non-nil only while authorized. A unique index on it keeps
// at most one authorized record per owner.
func (s *Subscription) ActiveOwnerKey() *string {
	if !s.status.IsAuthorized() {
		return nil
	}
	owner := s.ownerID
	return &owner
}

func (s *Subscription) ID() string { return s.id }
func (s *Subscription) OwnerID() string { return s.ownerID }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) PlanKind() paymentvo.PlanKind { return s.planKind }
func (s *Subscription) StartDate() time.Time { return s.startDate }
func (s *Subscription) NextPaymentDate() time.Time { return s.nextPaymentDate }
func (s *Subscription) SourcePaymentID() string { return s.sourcePaymentID }
func (s *Subscription) CanceledAt() *time.Time { return s.canceledAt }
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }

// Clone returns a deep copy.
func (s *Subscription) Clone() *Subscription {
	c := *s
	if s.canceledAt != nil {
		t := *s.canceledAt
		c.canceledAt = &t
	}
	return &c
}

type SubscriptionReconstructParams struct {
	ID              string
	OwnerID         string
	Status          vo.SubscriptionStatus
	PlanKind        paymentvo.PlanKind
	StartDate       time.Time
	NextPaymentDate time.Time
	SourcePaymentID string
	CanceledAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructSubscription(p SubscriptionReconstructParams) *Subscription {
	return &Subscription{
		id:              p.ID,
		ownerID:         p.OwnerID,
		status:          p.Status,
		planKind:        p.PlanKind,
		startDate:       p.StartDate,
		nextPaymentDate: p.NextPaymentDate,
		sourcePaymentID: p.SourcePaymentID,
		canceledAt:      p.CanceledAt,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
}
