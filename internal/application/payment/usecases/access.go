package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

// loadReadable loads a payment and applies the read rule shared by the status
// and verify endpoints: guest payments are open to whoever holds the id,
// owned payments only to their owner.
func loadReadable(ctx context.Context, repo payment.PaymentRepository, paymentID string, identity *string) (*payment.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, apperrors.NewValidationError("paymentId is required")
	}

	p, err := repo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, apperrors.NewNotFoundError("payment not found", paymentID)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if err := p.AuthorizeReader(identity); err != nil {
		return nil, toAccessError(err)
	}
	return p, nil
}

func toAccessError(err error) error {
	switch {
	case errors.Is(err, payment.ErrIdentityRequired):
		return apperrors.NewUnauthorizedError(err.Error())
	case errors.Is(err, payment.ErrNotOwner):
		return apperrors.NewForbiddenError(err.Error())
	default:
		return err
	}
}

// mapActivationError turns coordinator failures into application errors.
func mapActivationError(paymentID string, err error) error {
	if errors.Is(err, payment.ErrPaymentNotFound) {
		return apperrors.NewNotFoundError("payment not found", paymentID)
	}
	return apperrors.NewInternalError("activation failed", err.Error())
}
