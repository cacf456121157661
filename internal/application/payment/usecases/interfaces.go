package usecases

import (
	"context"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
)

// ActivationRunner is the part of activation.Coordinator the payment use
// cases drive.
type ActivationRunner interface {
	Activate(ctx context.Context, paymentID string) (*activation.Outcome, error)
	Evaluate(ctx context.Context, paymentID string) (*activation.Outcome, error)
}

var _ ActivationRunner = (*activation.Coordinator)(nil)
