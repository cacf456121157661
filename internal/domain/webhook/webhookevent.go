// Package webhook models the receipt log of gateway notifications. Receipts
// are an audit trail and a fast path for redeliveries; activation itself is
// idempotent without them.
package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Outcome is what one processing attempt of a receipt ended with.
type Outcome string

const (
	OutcomeReady   Outcome = "ready"
	OutcomePending Outcome = "pending"
	OutcomeIgnored Outcome = "ignored"
	OutcomeRetry   Outcome = "retry"
	OutcomeFailed  Outcome = "failed"
)

// Event is one stored gateway notification, unique per (provider, eventID).
type Event struct {
	id              uint
	provider        string
	eventID         string
	eventType       string
	paymentID       string
	payload         []byte
	signatureValid  bool
	attempts        int
	processedAt     *time.Time
	outcome         Outcome
	processingError string
	receivedAt      time.Time
}

type NewEventParams struct {
	Provider       string
	EventID        string
	EventType      string
	PaymentID      string
	Payload        []byte
	SignatureValid bool
	ReceivedAt     time.Time
}

// NewEvent builds a receipt. Notifications without an event id are keyed by
// the hash of payment id and body, so byte-identical redeliveries for one
// payment collapse while empty bodies of different payments stay apart.
func NewEvent(p NewEventParams) (*Event, error) {
	provider := strings.ToLower(strings.TrimSpace(p.Provider))
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if strings.TrimSpace(p.PaymentID) == "" {
		return nil, fmt.Errorf("payment id is required")
	}

	paymentID := strings.TrimSpace(p.PaymentID)
	eventID := strings.TrimSpace(p.EventID)
	if eventID == "" {
		h := sha256.New()
		h.Write([]byte(paymentID))
		h.Write([]byte{0})
		h.Write(p.Payload)
		eventID = "hash:" + hex.EncodeToString(h.Sum(nil))
	}

	return &Event{
		provider:       provider,
		eventID:        eventID,
		eventType:      strings.TrimSpace(p.EventType),
		paymentID:      paymentID,
		payload:        p.Payload,
		signatureValid: p.SignatureValid,
		receivedAt:     p.ReceivedAt,
	}, nil
}

// IsSettled is true once a processing attempt saw the payment ready. Only
// then can a redelivery be acknowledged without asking the gateway again;
// the same body may announce a later status change.
func (e *Event) IsSettled() bool {
	return e.processedAt != nil && e.outcome == OutcomeReady
}

func (e *Event) ID() uint { return e.id }
func (e *Event) Provider() string { return e.provider }
func (e *Event) EventID() string { return e.eventID }
func (e *Event) EventType() string { return e.eventType }
func (e *Event) PaymentID() string { return e.paymentID }
func (e *Event) Payload() []byte { return e.payload }
func (e *Event) SignatureValid() bool { return e.signatureValid }
func (e *Event) Attempts() int { return e.attempts }
func (e *Event) ProcessedAt() *time.Time { return e.processedAt }
func (e *Event) Outcome() Outcome { return e.outcome }
func (e *Event) ProcessingError() string { return e.processingError }
func (e *Event) ReceivedAt() time.Time { return e.receivedAt }

type EventReconstructParams struct {
	ID              uint
	Provider        string
	EventID         string
	EventType       string
	PaymentID       string
	Payload         []byte
	SignatureValid  bool
	Attempts        int
	ProcessedAt     *time.Time
	Outcome         Outcome
	ProcessingError string
	ReceivedAt      time.Time
}

func ReconstructEvent(p EventReconstructParams) *Event {
	return &Event{
		id:              p.ID,
		provider:        p.Provider,
		eventID:         p.EventID,
		eventType:       p.EventType,
		paymentID:       p.PaymentID,
		payload:         p.Payload,
		signatureValid:  p.SignatureValid,
		attempts:        p.Attempts,
		processedAt:     p.ProcessedAt,
		outcome:         p.Outcome,
		processingError: p.ProcessingError,
		receivedAt:      p.ReceivedAt,
	}
}
