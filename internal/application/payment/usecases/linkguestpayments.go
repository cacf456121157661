package usecases

import (
	"context"
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

type LinkGuestPaymentsCommand struct {
	Identity     string `json:"-" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email,max=254"`
	// TokenEmail is the email claim of the caller's session, if any.
	TokenEmail string `json:"-"`
}

type LinkGuestPaymentsExecutor interface {
	Execute(ctx context.Context, cmd LinkGuestPaymentsCommand) (*dto.LinkGuestResultDTO, error)
}

// LinkGuestPaymentsUseCase binds the most recently paid guest payment for an
// email to a newly authenticated identity and activates it. At most one
// payment is promoted per call, and none while the identity already holds an
// authorized subscription.
type LinkGuestPaymentsUseCase struct {
	paymentRepo      payment.PaymentRepository
	subscriptionRepo subscription.SubscriptionRepository
	activations      ActivationRunner
	clock            biztime.Clock
	logger           logger.Interface
}

func NewLinkGuestPaymentsUseCase(
	paymentRepo payment.PaymentRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	activations ActivationRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *LinkGuestPaymentsUseCase {
	return &LinkGuestPaymentsUseCase{
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
		activations:      activations,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *LinkGuestPaymentsUseCase) Execute(ctx context.Context, cmd LinkGuestPaymentsCommand) (*dto.LinkGuestResultDTO, error) {
	cmd.ContactEmail = utils.NormalizeEmail(cmd.ContactEmail)
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if cmd.TokenEmail != "" && utils.NormalizeEmail(cmd.TokenEmail) != cmd.ContactEmail {
		uc.logger.Warnw("guest link email does not match session",
			"user_id", cmd.Identity,
			"contact_email", utils.MaskEmail(cmd.ContactEmail),
		)
		return nil, apperrors.NewForbiddenError("email does not match the authenticated account")
	}

	notLinked := &dto.LinkGuestResultDTO{Linked: false, Items: []*dto.LinkedItemDTO{}}

	active, err := uc.subscriptionRepo.GetAuthorizedByOwner(ctx, cmd.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscription: %w", err)
	}
	if active != nil {
		uc.logger.Debugw("identity already has an active subscription, skipping guest link",
			"user_id", cmd.Identity,
			"subscription_id", active.ID(),
		)
		return notLinked, nil
	}

	candidate, err := uc.paymentRepo.FindLatestPaidGuestByEmail(ctx, cmd.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to find guest payments: %w", err)
	}
	if candidate == nil {
		return notLinked, nil
	}

	won, err := uc.paymentRepo.BindGuestOwner(ctx, candidate.ID(), cmd.Identity, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to link guest payment: %w", err)
	}
	if !won {
		// Someone bound it first. Continue only if it was this identity.
		current, err := uc.paymentRepo.GetByID(ctx, candidate.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to reload guest payment: %w", err)
		}
		if current.OwnerIDValue() != cmd.Identity {
			return notLinked, nil
		}
	}

	out, err := uc.activations.Activate(ctx, candidate.ID())
	if err != nil {
		uc.logger.Errorw("activation failed after guest link",
			"error", err,
			"payment_id", candidate.ID(),
			"user_id", cmd.Identity,
		)
		return nil, mapActivationError(candidate.ID(), err)
	}

	uc.logger.Infow("guest payment linked",
		"payment_id", candidate.ID(),
		"user_id", cmd.Identity,
		"ready", out.Ready,
		"bound_by_this_call", won,
	)

	return &dto.LinkGuestResultDTO{
		Linked: true,
		Items: []*dto.LinkedItemDTO{{
			PaymentID:  candidate.ID(),
			PlanKind:   candidate.PlanKind().String(),
			Amount:     candidate.Amount().AmountInCents(),
			PaidAt:     candidate.PaidAt(),
			Activation: dto.ToActivationDTO(out, 0),
		}},
	}, nil
}
