package entitlement

import (
	"fmt"
	"time"
)

// Entitlement is the single plan record per identity.
type Entitlement struct {
	ownerID                string
	planTier               PlanTier
	subscriptionStatus     SubscriptionStatus
	externalSubscriptionID *string
	createdAt              time.Time
	updatedAt              time.Time
}

func NewFreeEntitlement(ownerID string, now time.Time) (*Entitlement, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	return &Entitlement{
		ownerID:            ownerID,
		planTier:           PlanTierFree,
		subscriptionStatus: SubscriptionStatusInactive,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Grant activates premium access backed by subscriptionID. Admins keep their
// tier; everyone else becomes pro. It reports whether anything changed.
func (e *Entitlement) Grant(subscriptionID string, now time.Time) bool {
	if !e.NeedsGrant(subscriptionID) {
		return false
	}
	if e.planTier != PlanTierAdmin {
		e.planTier = PlanTierPro
	}
	e.subscriptionStatus = SubscriptionStatusActive
	e.externalSubscriptionID = &subscriptionID
	e.updatedAt = now
	return true
}

// NeedsGrant is false once access is active and backed by subscriptionID.
func (e *Entitlement) NeedsGrant(subscriptionID string) bool {
	return !e.IsPremiumActive() ||
		e.externalSubscriptionID == nil ||
		*e.externalSubscriptionID != subscriptionID
}

// Revoke drops premium access granted by subscriptionID. A revoke for any
// other subscription is ignored, so ending an older record never removes
// access granted by its successor.
func (e *Entitlement) Revoke(subscriptionID string, now time.Time) bool {
	if e.externalSubscriptionID == nil || *e.externalSubscriptionID != subscriptionID {
		return false
	}
	if e.subscriptionStatus == SubscriptionStatusCanceled {
		return false
	}
	if e.planTier != PlanTierAdmin {
		e.planTier = PlanTierFree
	}
	e.subscriptionStatus = SubscriptionStatusCanceled
	e.updatedAt = now
	return true
}

// IsPremiumActive is the read-time check used to report activation.
func (e *Entitlement) IsPremiumActive() bool {
	return e.planTier.IsPremium() && e.subscriptionStatus == SubscriptionStatusActive
}

func (e *Entitlement) OwnerID() string { return e.ownerID }
func (e *Entitlement) PlanTier() PlanTier { return e.planTier }
func (e *Entitlement) SubscriptionStatus() SubscriptionStatus { return e.subscriptionStatus }
func (e *Entitlement) ExternalSubscriptionID() *string { return e.externalSubscriptionID }
func (e *Entitlement) CreatedAt() time.Time { return e.createdAt }
func (e *Entitlement) UpdatedAt() time.Time { return e.updatedAt }

// Clone returns a deep copy.
func (e *Entitlement) Clone() *Entitlement {
	c := *e
	if e.externalSubscriptionID != nil {
		id := *e.externalSubscriptionID
		c.externalSubscriptionID = &id
	}
	return &c
}

type EntitlementReconstructParams struct {
	OwnerID                string
	PlanTier               PlanTier
	SubscriptionStatus     SubscriptionStatus
	ExternalSubscriptionID *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func ReconstructEntitlement(p EntitlementReconstructParams) *Entitlement {
	return &Entitlement{
		ownerID:                p.OwnerID,
		planTier:               p.PlanTier,
		subscriptionStatus:     p.SubscriptionStatus,
		externalSubscriptionID: p.ExternalSubscriptionID,
		createdAt:              p.CreatedAt,
		updatedAt:              p.UpdatedAt,
	}
}
