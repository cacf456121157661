package usecases

import (
	"context"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type GetPaymentStatusQuery struct {
	PaymentID string
	Identity  *string
}

type GetPaymentStatusExecutor interface {
	Execute(ctx context.Context, q GetPaymentStatusQuery) (*dto.PaymentStatusDTO, error)
}

// GetPaymentStatusUseCase returns the stored state of a payment. It never
// calls the gateway and never writes.
type GetPaymentStatusUseCase struct {
	paymentRepo payment.PaymentRepository
	activations ActivationRunner
	logger      logger.Interface
}

func NewGetPaymentStatusUseCase(
	paymentRepo payment.PaymentRepository,
	activations ActivationRunner,
	logger logger.Interface,
) *GetPaymentStatusUseCase {
	return &GetPaymentStatusUseCase{
		paymentRepo: paymentRepo,
		activations: activations,
		logger:      logger,
	}
}

func (uc *GetPaymentStatusUseCase) Execute(ctx context.Context, q GetPaymentStatusQuery) (*dto.PaymentStatusDTO, error) {
	p, err := loadReadable(ctx, uc.paymentRepo, q.PaymentID, q.Identity)
	if err != nil {
		return nil, err
	}

	out, err := uc.activations.Evaluate(ctx, p.ID())
	if err != nil {
		uc.logger.Errorw("failed to evaluate activation", "error", err, "payment_id", p.ID())
		return nil, mapActivationError(p.ID(), err)
	}

	return &dto.PaymentStatusDTO{
		Payment:    dto.ToPaymentDTO(p),
		Activation: dto.ToActivationDTO(out, 0),
	}, nil
}
