package usecases

import (
	"context"
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

type ReconcileActivationsResult struct {
	Scanned int
	Ready   int
	// Deferred payments wait for the owner's current subscription to end.
	Deferred int
	Failed   int
}

type ReconcilePaymentExecutor interface {
	ReconcileOne(ctx context.Context, paymentID string) (*dto.ActivationDTO, error)
}

// ReconcileActivationsUseCase re-drives owned, paid payments that never got
// a subscription, e.g. after a store failure mid-activation.
type ReconcileActivationsUseCase struct {
	paymentRepo payment.PaymentRepository
	activations ActivationRunner
	batchSize   int
	logger      logger.Interface
}

func NewReconcileActivationsUseCase(
	paymentRepo payment.PaymentRepository,
	activations ActivationRunner,
	batchSize int,
	logger logger.Interface,
) *ReconcileActivationsUseCase {
	return &ReconcileActivationsUseCase{
		paymentRepo: paymentRepo,
		activations: activations,
		batchSize:   batchSize,
		logger:      logger,
	}
}

func (uc *ReconcileActivationsUseCase) Execute(ctx context.Context) (*ReconcileActivationsResult, error) {
	stuck, err := uc.paymentRepo.ListPaidWithoutSubscription(ctx, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list unactivated payments", "error", err)
		return nil, fmt.Errorf("failed to list unactivated payments: %w", err)
	}

	result := &ReconcileActivationsResult{Scanned: len(stuck)}
	for _, p := range stuck {
		if ctx.Err() != nil {
			break
		}
		out, err := uc.activations.Activate(ctx, p.ID())
		if err != nil {
			result.Failed++
			uc.logger.Errorw("reconcile activation failed", "error", err, "payment_id", p.ID())
			continue
		}
		switch {
		case out.Ready:
			result.Ready++
		case out.Refused:
			result.Deferred++
		}
	}

	if result.Scanned > 0 {
		uc.logger.Infow("unactivated payments reconciled",
			"scanned", result.Scanned,
			"ready", result.Ready,
			"deferred", result.Deferred,
			"failed", result.Failed,
		)
	}
	return result, nil
}

// ReconcileOne re-drives a single payment on operator request.
func (uc *ReconcileActivationsUseCase) ReconcileOne(ctx context.Context, paymentID string) (*dto.ActivationDTO, error) {
	if err := utils.ValidateID(paymentID); err != nil {
		return nil, err
	}
	out, err := uc.activations.Activate(ctx, paymentID)
	if err != nil {
		return nil, mapActivationError(paymentID, err)
	}
	uc.logger.Infow("payment reconciled by operator",
		"payment_id", paymentID,
		"ready", out.Ready,
		"effects", out.Effects,
	)
	return dto.ToActivationDTO(out, 0), nil
}
