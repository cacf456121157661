package dto

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
)

// EntitlementDTO is the caller's current plan. Identities that never bought
// anything read as free/inactive.
type EntitlementDTO struct {
	PlanTier           string     `json:"planTier"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionID     *string    `json:"subscriptionId,omitempty"`
	IsPremium          bool       `json:"isPremium"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func ToEntitlementDTO(e *entitlement.Entitlement) *EntitlementDTO {
	if e == nil {
		return &EntitlementDTO{
			PlanTier:           entitlement.PlanTierFree.String(),
			SubscriptionStatus: entitlement.SubscriptionStatusInactive.String(),
		}
	}
	updated := e.UpdatedAt()
	return &EntitlementDTO{
		PlanTier:           e.PlanTier().String(),
		SubscriptionStatus: e.SubscriptionStatus().String(),
		SubscriptionID:     e.ExternalSubscriptionID(),
		IsPremium:          e.IsPremiumActive(),
		UpdatedAt:          &updated,
	}
}
