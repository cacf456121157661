package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/subscription/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// errCancelRaced aborts the transaction when another request canceled the
// record between the read and the conditional update.
var errCancelRaced = errors.New("subscription no longer authorized")

type CancelSubscriptionCommand struct {
	Identity string `validate:"required"`
}

// TransactionRunner is satisfied by db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CancelSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.CancelSubscriptionResultDTO, error)
}

// CancelSubscriptionUseCase ends the caller's authorized subscription and
// drops the premium access it backed, both in one transaction.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	entitlementRepo  entitlement.EntitlementRepository
	txRunner         TransactionRunner
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	entitlementRepo entitlement.EntitlementRepository,
	txRunner TransactionRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		entitlementRepo:  entitlementRepo,
		txRunner:         txRunner,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.CancelSubscriptionResultDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	sub, err := uc.subscriptionRepo.GetAuthorizedByOwner(ctx, cmd.Identity)
	if err != nil {
		uc.logger.Errorw("failed to get authorized subscription", "error", err, "owner_id", cmd.Identity)
		return nil, fmt.Errorf("failed to get authorized subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("no active subscription")
	}

	now := uc.clock.Now()
	var revoked bool
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		won, err := uc.subscriptionRepo.TransitionToCanceled(txCtx, sub.ID(), now)
		if err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		if !won {
			return errCancelRaced
		}
		revoked, err = uc.entitlementRepo.Revoke(txCtx, cmd.Identity, sub.ID(), now)
		if err != nil {
			return fmt.Errorf("failed to revoke entitlement: %w", err)
		}
		return nil
	})
	if errors.Is(err, errCancelRaced) {
		return nil, apperrors.NewConflictError("subscription was already canceled")
	}
	if err != nil {
		uc.logger.Errorw("failed to cancel subscription", "error", err, "subscription_id", sub.ID())
		return nil, err
	}

	if cancelErr := sub.Cancel(now); cancelErr != nil {
		uc.logger.Warnw("stored subscription state diverged", "error", cancelErr, "subscription_id", sub.ID())
	}

	uc.logger.Infow("subscription canceled",
		"subscription_id", sub.ID(),
		"owner_id", cmd.Identity,
		"entitlement_revoked", revoked,
	)

	return &dto.CancelSubscriptionResultDTO{
		Subscription:       dto.ToSubscriptionDTO(sub),
		EntitlementRevoked: revoked,
	}, nil
}
