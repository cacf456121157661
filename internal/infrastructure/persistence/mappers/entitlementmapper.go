package mappers

import (
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
)

// EntitlementToDomain converts a persistence model to a domain entitlement
func EntitlementToDomain(model *models.EntitlementModel) (*entitlement.Entitlement, error) {
	tier := entitlement.PlanTier(model.PlanTier)
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid plan tier: %s", model.PlanTier)
	}
	status := entitlement.SubscriptionStatus(model.SubscriptionStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", model.SubscriptionStatus)
	}

	return entitlement.ReconstructEntitlement(entitlement.EntitlementReconstructParams{
		OwnerID:                model.OwnerID,
		PlanTier:               tier,
		SubscriptionStatus:     status,
		ExternalSubscriptionID: model.ExternalSubscriptionID,
		CreatedAt:              model.CreatedAt,
		UpdatedAt:              model.UpdatedAt,
	}), nil
}
