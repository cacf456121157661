package paymentgateway

import (
	"context"
	"errors"
	"time"
)

// ErrGatewayUnavailable wraps every transport failure. Callers treat it as
// "status unknown, retry later", never as a rejection.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// ErrPaymentNotFound is returned when the gateway has no payment with the id.
var ErrPaymentNotFound = errors.New("payment not found at gateway")

// Status is the gateway-side state of a payment.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) IsApproved() bool {
	return s == StatusApproved
}

func (s Status) String() string {
	return string(s)
}

// PaymentGateway is the PIX gateway capability.
type PaymentGateway interface {
	CreatePixPayment(ctx context.Context, req CreatePixPaymentRequest) (*CreatePixPaymentResponse, error)
	// FetchPaymentStatus is the authoritative status read. Webhook payloads are
	// never trusted in its place.
	FetchPaymentStatus(ctx context.Context, paymentID string) (*StatusResult, error)
}

// CreatePixPaymentRequest carries amounts in the smallest currency unit.
type CreatePixPaymentRequest struct {
	Reference       string
	Amount          int64
	Currency        string
	ContactEmail    string
	PayerName       string
	Description     string
	ExpiresAt       time.Time
	NotificationURL string
}

type CreatePixPaymentResponse struct {
	PaymentID string
	// QRCode is the PIX copy-and-paste payload encoded in the QR image.
	QRCode    string
	ExpiresAt time.Time
}

type StatusResult struct {
	PaymentID  string
	Status     Status
	ApprovedAt *time.Time
}

// WebhookVerifier authenticates webhook deliveries.
type WebhookVerifier interface {
	Enabled() bool
	Verify(paymentID, requestID, signatureHeader string) bool
}
