package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
)

// BaseTime is the fixed instant fixtures and FixedClocks start from.
var BaseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// MockSubscriptionIDGenerator returns predictable subscription ids. It is
// safe for concurrent use.
func MockSubscriptionIDGenerator() func() (string, error) {
	var counter atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("sub_test%d", counter.Add(1)), nil
	}
}

// PaymentParams holds parameters for creating a test payment.
type PaymentParams struct {
	ID        string
	OwnerID   *string
	Email     string
	PlanKind  vo.PlanKind
	Amount    int64
	ExpiresAt time.Time
	Now       time.Time
}

// PaymentOption modifies PaymentParams.
type PaymentOption func(*PaymentParams)

func WithOwner(ownerID string) PaymentOption {
	return func(p *PaymentParams) {
		p.OwnerID = &ownerID
	}
}

func WithEmail(email string) PaymentOption {
	return func(p *PaymentParams) {
		p.Email = email
	}
}

func WithPlanKind(kind vo.PlanKind) PaymentOption {
	return func(p *PaymentParams) {
		p.PlanKind = kind
	}
}

func WithExpiresAt(t time.Time) PaymentOption {
	return func(p *PaymentParams) {
		p.ExpiresAt = t
	}
}

func WithCreatedAt(t time.Time) PaymentOption {
	return func(p *PaymentParams) {
		p.Now = t
	}
}

// NewTestPayment builds a pending monthly guest payment unless overridden.
func NewTestPayment(id string, opts ...PaymentOption) *payment.Payment {
	params := PaymentParams{
		ID:        id,
		Email:     "buyer@example.com",
		PlanKind:  vo.PlanKindMonthly,
		Amount:    1990,
		ExpiresAt: BaseTime.Add(30 * time.Minute),
		Now:       BaseTime,
	}
	for _, opt := range opts {
		opt(&params)
	}

	p, err := payment.NewPayment(payment.NewPaymentParams{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		ContactEmail: params.Email,
		Amount:       vo.NewMoney(params.Amount, "BRL"),
		PlanKind:     params.PlanKind,
		QRCode:       "pix-qr-" + params.ID,
		ExpiresAt:    params.ExpiresAt,
		Now:          params.Now,
	})
	if err != nil {
		panic(fmt.Sprintf("invalid test payment: %v", err))
	}
	return p
}
