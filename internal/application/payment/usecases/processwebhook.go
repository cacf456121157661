package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/webhook"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type ProcessWebhookCommand struct {
	Body            []byte
	SignatureHeader string
	RequestID       string
	// QueryDataID is the data.id query parameter some deliveries carry
	// instead of a body.
	QueryDataID string
}

type ProcessWebhookExecutor interface {
	Execute(ctx context.Context, cmd ProcessWebhookCommand) (*dto.WebhookResultDTO, error)
}

// gatewayNotification is the push body. Only data.id is used to drive
// activation; the claimed status is never read.
type gatewayNotification struct {
	ID     flexibleID `json:"id"`
	Type   string     `json:"type"`
	Action string     `json:"action"`
	Data   struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// flexibleID accepts both numeric and string ids.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// ProcessWebhookUseCase records the receipt, then re-drives activation from
// the gateway's authoritative status. Only a redelivery of a receipt that
// already saw the payment ready is acknowledged without that round trip. The
// result tells the handler whether the gateway should retry: success for
// handled, duplicate or unknown payments, failure only for transient problems.
type ProcessWebhookUseCase struct {
	activations ActivationRunner
	events      webhook.EventRepository
	verifier    paymentgateway.WebhookVerifier
	clock       biztime.Clock
	logger      logger.Interface
}

func NewProcessWebhookUseCase(
	activations ActivationRunner,
	events webhook.EventRepository,
	verifier paymentgateway.WebhookVerifier,
	clock biztime.Clock,
	logger logger.Interface,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		activations: activations,
		events:      events,
		verifier:    verifier,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, cmd ProcessWebhookCommand) (*dto.WebhookResultDTO, error) {
	body := cmd.Body
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	var n gatewayNotification
	if err := json.Unmarshal(body, &n); err != nil {
		uc.logger.Warnw("malformed webhook body", "error", err)
		return nil, apperrors.NewValidationError("malformed webhook payload")
	}

	paymentID := string(n.Data.ID)
	if paymentID == "" {
		paymentID = strings.TrimSpace(cmd.QueryDataID)
	}
	if paymentID == "" {
		return nil, apperrors.NewValidationError("webhook payload has no payment id")
	}

	signatureValid := false
	if uc.verifier != nil && uc.verifier.Enabled() {
		if !uc.verifier.Verify(paymentID, cmd.RequestID, cmd.SignatureHeader) {
			uc.logger.Warnw("webhook signature rejected",
				"payment_id", paymentID,
				"request_id", cmd.RequestID,
			)
			return nil, apperrors.NewUnauthorizedError("invalid webhook signature")
		}
		signatureValid = true
	}

	eventType := n.Action
	if eventType == "" {
		eventType = n.Type
	}
	ev, err := webhook.NewEvent(webhook.NewEventParams{
		Provider:       constants.WebhookProviderPix,
		EventID:        string(n.ID),
		EventType:      eventType,
		PaymentID:      paymentID,
		Payload:        body,
		SignatureValid: signatureValid,
		ReceivedAt:     uc.clock.Now(),
	})
	if err != nil {
		return nil, apperrors.NewValidationError("invalid webhook", err.Error())
	}

	created, stored, err := uc.events.CreateIfNotExists(ctx, ev)
	if err != nil {
		uc.logger.Errorw("failed to record webhook receipt", "error", err, "payment_id", paymentID)
		return nil, fmt.Errorf("failed to record webhook receipt: %w", err)
	}
	if !created && stored.IsSettled() {
		uc.logger.Infow("duplicate webhook acknowledged",
			"payment_id", paymentID,
			"event_id", stored.EventID(),
		)
		return &dto.WebhookResultDTO{Received: true, Duplicate: true, PaymentID: paymentID}, nil
	}

	out, err := uc.activations.Activate(ctx, paymentID)
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound):
		uc.markProcessed(ctx, stored, webhook.OutcomeIgnored, "")
		uc.logger.Infow("webhook for unknown payment ignored", "payment_id", paymentID)
		return &dto.WebhookResultDTO{Received: true, Ignored: true, PaymentID: paymentID}, nil

	case err != nil:
		uc.markProcessed(ctx, stored, webhook.OutcomeFailed, err.Error())
		uc.logger.Errorw("webhook activation failed", "error", err, "payment_id", paymentID)
		return nil, apperrors.NewInternalError("failed to process webhook")

	case out.Retry:
		uc.markProcessed(ctx, stored, webhook.OutcomeRetry, string(out.Reason))
		return nil, apperrors.NewServiceUnavailableError("payment gateway unavailable, retry later")
	}

	outcome := webhook.OutcomePending
	if out.Ready {
		outcome = webhook.OutcomeReady
	}
	uc.markProcessed(ctx, stored, outcome, "")
	uc.logger.Infow("webhook processed",
		"payment_id", paymentID,
		"ready", out.Ready,
		"reason", out.Reason,
		"effects", out.Effects,
	)
	return &dto.WebhookResultDTO{Received: true, PaymentID: paymentID, Ready: out.Ready}, nil
}

// markProcessed is best effort. A failed write only means a redelivery is
// processed again, which activation tolerates.
func (uc *ProcessWebhookUseCase) markProcessed(ctx context.Context, ev *webhook.Event, outcome webhook.Outcome, processingError string) {
	if ev == nil {
		return
	}
	if err := uc.events.MarkProcessed(ctx, ev.ID(), uc.clock.Now(), outcome, processingError); err != nil {
		uc.logger.Warnw("failed to update webhook receipt", "error", err, "event_id", ev.EventID())
	}
}
