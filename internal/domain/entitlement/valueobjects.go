package entitlement

// PlanTier is the access level an identity holds.
type PlanTier string

const (
	PlanTierFree  PlanTier = "free"
	PlanTierPro   PlanTier = "pro"
	PlanTierAdmin PlanTier = "admin"
)

func (t PlanTier) IsValid() bool {
	return t == PlanTierFree || t == PlanTierPro || t == PlanTierAdmin
}

// IsPremium covers pro and the manually assigned admin override.
func (t PlanTier) IsPremium() bool {
	return t == PlanTierPro || t == PlanTierAdmin
}

func (t PlanTier) String() string {
	return string(t)
}

// SubscriptionStatus mirrors the state of the identity's current subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPaused   SubscriptionStatus = "paused"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusInactive, SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCanceled:
		return true
	default:
		return false
	}
}

func (s SubscriptionStatus) String() string {
	return string(s)
}
