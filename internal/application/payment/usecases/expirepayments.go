package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type ExpirePaymentsResult struct {
	Scanned   int
	Expired   int
	Activated int
	Skipped   int
}

// ExpirePaymentsUseCase closes pending payments past their QR expiry. The
// gateway is asked first so a payment approved at the last second is
// activated instead of expired.
type ExpirePaymentsUseCase struct {
	paymentRepo    payment.PaymentRepository
	gateway        paymentgateway.PaymentGateway
	activations    ActivationRunner
	clock          biztime.Clock
	gatewayTimeout time.Duration
	batchSize      int
	logger         logger.Interface
}

func NewExpirePaymentsUseCase(
	paymentRepo payment.PaymentRepository,
	gateway paymentgateway.PaymentGateway,
	activations ActivationRunner,
	clock biztime.Clock,
	gatewayTimeout time.Duration,
	batchSize int,
	logger logger.Interface,
) *ExpirePaymentsUseCase {
	return &ExpirePaymentsUseCase{
		paymentRepo:    paymentRepo,
		gateway:        gateway,
		activations:    activations,
		clock:          clock,
		gatewayTimeout: gatewayTimeout,
		batchSize:      batchSize,
		logger:         logger,
	}
}

func (uc *ExpirePaymentsUseCase) Execute(ctx context.Context) (*ExpirePaymentsResult, error) {
	now := uc.clock.Now()
	overdue, err := uc.paymentRepo.ListOverduePending(ctx, now, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list overdue payments", "error", err)
		return nil, fmt.Errorf("failed to list overdue payments: %w", err)
	}

	result := &ExpirePaymentsResult{Scanned: len(overdue)}
	if len(overdue) == 0 {
		uc.logger.Debugw("no overdue payments found")
		return result, nil
	}

	for _, p := range overdue {
		if ctx.Err() != nil {
			break
		}

		status, err := uc.fetch(ctx, p.ID())
		switch {
		case errors.Is(err, paymentgateway.ErrPaymentNotFound):
			// never registered at the gateway; nothing can approve it
		case err != nil:
			uc.logger.Warnw("gateway unavailable, payment left pending",
				"error", err,
				"payment_id", p.ID(),
			)
			result.Skipped++
			continue
		case status.Status.IsApproved():
			if _, err := uc.activations.Activate(ctx, p.ID()); err != nil {
				uc.logger.Errorw("failed to activate late approval", "error", err, "payment_id", p.ID())
				result.Skipped++
				continue
			}
			result.Activated++
			continue
		}

		won, err := uc.paymentRepo.TransitionToExpired(ctx, p.ID(), now)
		if err != nil {
			uc.logger.Errorw("failed to expire payment", "error", err, "payment_id", p.ID())
			result.Skipped++
			continue
		}
		if won {
			result.Expired++
			uc.logger.Infow("payment marked as expired", "payment_id", p.ID())
		}
	}

	uc.logger.Infow("overdue payments processed",
		"scanned", result.Scanned,
		"expired", result.Expired,
		"activated", result.Activated,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (uc *ExpirePaymentsUseCase) fetch(ctx context.Context, paymentID string) (*paymentgateway.StatusResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()
	return uc.gateway.FetchPaymentStatus(ctx, paymentID)
}
