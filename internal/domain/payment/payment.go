package payment

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
)

// Payment is one PIX payment attempt. The id is assigned by the gateway. A nil
// owner marks a guest payment that can later be linked by contact email.
type Payment struct {
	id               string
	ownerID          *string
	contactEmail     string
	amount           vo.Money
	planKind         vo.PlanKind
	status           vo.PaymentStatus
	gatewayReference string
	qrCode           string
	expiresAt        time.Time
	paidAt           *time.Time
	linkedAt         *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

// NewPaymentParams describes a freshly created gateway payment intent.
type NewPaymentParams struct {
	ID               string
	OwnerID          *string
	ContactEmail     string
	Amount           vo.Money
	PlanKind         vo.PlanKind
	GatewayReference string
	QRCode           string
	ExpiresAt        time.Time
	Now              time.Time
}

func NewPayment(p NewPaymentParams) (*Payment, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("payment id is required")
	}
	email := strings.ToLower(strings.TrimSpace(p.ContactEmail))
	if email == "" {
		return nil, fmt.Errorf("contact email is required")
	}
	if !p.PlanKind.IsValid() {
		return nil, fmt.Errorf("invalid plan kind: %s", p.PlanKind)
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if p.OwnerID != nil && strings.TrimSpace(*p.OwnerID) == "" {
		return nil, fmt.Errorf("owner id must not be blank")
	}

	return &Payment{
		id:               p.ID,
		ownerID:          p.OwnerID,
		contactEmail:     email,
		amount:           p.Amount,
		planKind:         p.PlanKind,
		status:           vo.PaymentStatusPending,
		gatewayReference: p.GatewayReference,
		qrCode:           p.QRCode,
		expiresAt:        p.ExpiresAt,
		createdAt:        p.Now,
		updatedAt:        p.Now,
	}, nil
}

// AuthorizeReader enforces payment ownership. Guest payments are readable by
// anyone holding the id; owned payments only by their owner.
func (p *Payment) AuthorizeReader(identity *string) error {
	if p.ownerID == nil {
		return nil
	}
	if identity == nil || *identity == "" {
		return ErrIdentityRequired
	}
	if *identity != *p.ownerID {
		return ErrNotOwner
	}
	return nil
}

// MarkAsPaid moves pending to paid. It reports false without changes when the
// payment already left pending, so a lost race is not an error.
func (p *Payment) MarkAsPaid(at time.Time) bool {
	if p.status != vo.PaymentStatusPending {
		return false
	}
	p.status = vo.PaymentStatusPaid
	p.paidAt = &at
	p.updatedAt = at
	return true
}

// BindOwner links a paid guest payment to an identity. The owner can never
// change once set.
func (p *Payment) BindOwner(ownerID string, at time.Time) error {
	if p.ownerID != nil {
		return ErrAlreadyOwned
	}
	if p.status != vo.PaymentStatusPaid {
		return ErrNotPaid
	}
	p.ownerID = &ownerID
	p.status = vo.PaymentStatusLinked
	p.linkedAt = &at
	p.updatedAt = at
	return nil
}

// MarkAsExpired closes a payment that was never approved.
func (p *Payment) MarkAsExpired(at time.Time) error {
	if p.status != vo.PaymentStatusPending {
		return ErrNotPending
	}
	p.status = vo.PaymentStatusExpired
	p.updatedAt = at
	return nil
}

// IsOverdue reports a pending payment past its QR code expiry.
func (p *Payment) IsOverdue(now time.Time) bool {
	return p.status.IsPending() && !p.expiresAt.IsZero() && now.After(p.expiresAt)
}

func (p *Payment) IsGuest() bool {
	return p.ownerID == nil
}

func (p *Payment) IsPaid() bool {
	return p.status.IsPaid()
}

func (p *Payment) ID() string { return p.id }
func (p *Payment) OwnerID() *string { return p.ownerID }
func (p *Payment) ContactEmail() string { return p.contactEmail }
func (p *Payment) Amount() vo.Money { return p.amount }
func (p *Payment) PlanKind() vo.PlanKind { return p.planKind }
func (p *Payment) Status() vo.PaymentStatus { return p.status }
func (p *Payment) GatewayReference() string { return p.gatewayReference }
func (p *Payment) QRCode() string { return p.qrCode }
func (p *Payment) ExpiresAt() time.Time { return p.expiresAt }
func (p *Payment) PaidAt() *time.Time { return p.paidAt }
func (p *Payment) LinkedAt() *time.Time { return p.linkedAt }
func (p *Payment) CreatedAt() time.Time { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// OwnerIDValue returns the owner or "" for guest payments.
func (p *Payment) OwnerIDValue() string {
	if p.ownerID == nil {
		return ""
	}
	return *p.ownerID
}

// Clone returns a deep copy so in-memory stores never share mutable state
// with callers.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.ownerID != nil {
		owner := *p.ownerID
		c.ownerID = &owner
	}
	if p.paidAt != nil {
		t := *p.paidAt
		c.paidAt = &t
	}
	if p.linkedAt != nil {
		t := *p.linkedAt
		c.linkedAt = &t
	}
	return &c
}

// PaymentReconstructParams carries persisted state back into the aggregate.
type PaymentReconstructParams struct {
	ID               string
	OwnerID          *string
	ContactEmail     string
	Amount           vo.Money
	PlanKind         vo.PlanKind
	Status           vo.PaymentStatus
	GatewayReference string
	QRCode           string
	ExpiresAt        time.Time
	PaidAt           *time.Time
	LinkedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructPayment(p PaymentReconstructParams) *Payment {
	return &Payment{
		id:               p.ID,
		ownerID:          p.OwnerID,
		contactEmail:     p.ContactEmail,
		amount:           p.Amount,
		planKind:         p.PlanKind,
		status:           p.Status,
		gatewayReference: p.GatewayReference,
		qrCode:           p.QRCode,
		expiresAt:        p.ExpiresAt,
		paidAt:           p.PaidAt,
		linkedAt:         p.LinkedAt,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}
