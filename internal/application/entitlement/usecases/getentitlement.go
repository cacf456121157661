package usecases

import (
	"context"
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/entitlement/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type GetEntitlementExecutor interface {
	Execute(ctx context.Context, ownerID string) (*dto.EntitlementDTO, error)
}

// GetEntitlementUseCase handles reading the caller's entitlement
type GetEntitlementUseCase struct {
	entitlementRepo entitlement.EntitlementRepository
	logger          logger.Interface
}

// NewGetEntitlementUseCase creates a new get entitlement use case
func NewGetEntitlementUseCase(
	entitlementRepo entitlement.EntitlementRepository,
	logger logger.Interface,
) *GetEntitlementUseCase {
	return &GetEntitlementUseCase{
		entitlementRepo: entitlementRepo,
		logger:          logger,
	}
}

// Execute executes the get entitlement use case
func (uc *GetEntitlementUseCase) Execute(ctx context.Context, ownerID string) (*dto.EntitlementDTO, error) {
	if ownerID == "" {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	ent, err := uc.entitlementRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Errorw("failed to get entitlement", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return dto.ToEntitlementDTO(ent), nil
}
