package usecases

import (
	"context"
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type VerifyActivationQuery struct {
	PaymentID string
	Identity  *string
}

type VerifyActivationExecutor interface {
	Execute(ctx context.Context, q VerifyActivationQuery) (*dto.ActivationDTO, error)
}

// VerifyActivationUseCase is the polling verifier. Every poll re-runs the
// coordinator, so a client can finish its own activation when the webhook is
// late or lost.
type VerifyActivationUseCase struct {
	paymentRepo  payment.PaymentRepository
	activations  ActivationRunner
	pollInterval time.Duration
	logger       logger.Interface
}

func NewVerifyActivationUseCase(
	paymentRepo payment.PaymentRepository,
	activations ActivationRunner,
	pollInterval time.Duration,
	logger logger.Interface,
) *VerifyActivationUseCase {
	return &VerifyActivationUseCase{
		paymentRepo:  paymentRepo,
		activations:  activations,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (uc *VerifyActivationUseCase) Execute(ctx context.Context, q VerifyActivationQuery) (*dto.ActivationDTO, error) {
	p, err := loadReadable(ctx, uc.paymentRepo, q.PaymentID, q.Identity)
	if err != nil {
		return nil, err
	}

	out, err := uc.activations.Activate(ctx, p.ID())
	if err != nil {
		uc.logger.Errorw("activation failed during verify", "error", err, "payment_id", p.ID())
		return nil, mapActivationError(p.ID(), err)
	}

	uc.logger.Debugw("activation verified",
		"payment_id", p.ID(),
		"ready", out.Ready,
		"reason", out.Reason,
	)
	return dto.ToActivationDTO(out, uc.pollInterval), nil
}
