package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)

func TestGrant(t *testing.T) {
	e, err := NewFreeEntitlement("user-a", now)
	require.NoError(t, err)
	assert.False(t, e.IsPremiumActive())

	assert.True(t, e.Grant("sub_1", now))
	assert.Equal(t, PlanTierPro, e.PlanTier())
	assert.Equal(t, SubscriptionStatusActive, e.SubscriptionStatus())
	assert.Equal(t, "sub_1", *e.ExternalSubscriptionID())

	assert.False(t, e.Grant("sub_1", now.Add(time.Minute)), "second grant is a no-op")
	assert.Equal(t, now, e.UpdatedAt())

	assert.True(t, e.Grant("sub_2", now.Add(time.Hour)), "a newer subscription re-points the row")
}

func TestGrantKeepsAdminTier(t *testing.T) {
	e := ReconstructEntitlement(EntitlementReconstructParams{
		OwnerID:            "root",
		PlanTier:           PlanTierAdmin,
		SubscriptionStatus: SubscriptionStatusInactive,
	})

	e.Grant("sub_1", now)
	assert.Equal(t, PlanTierAdmin, e.PlanTier())
	assert.True(t, e.IsPremiumActive())

	assert.True(t, e.Revoke("sub_1", now))
	assert.Equal(t, PlanTierAdmin, e.PlanTier())
	assert.Equal(t, SubscriptionStatusCanceled, e.SubscriptionStatus())
}

func TestRevokeOnlyForBackingSubscription(t *testing.T) {
	e, err := NewFreeEntitlement("user-a", now)
	require.NoError(t, err)
	e.Grant("sub_2", now)

	assert.False(t, e.Revoke("sub_1", now), "an older record must not revoke")
	assert.True(t, e.IsPremiumActive())

	assert.True(t, e.Revoke("sub_2", now))
	assert.Equal(t, PlanTierFree, e.PlanTier())
	assert.False(t, e.IsPremiumActive())
	assert.False(t, e.Revoke("sub_2", now), "already revoked")
}

func TestValueObjects(t *testing.T) {
	assert.True(t, PlanTierAdmin.IsPremium())
	assert.False(t, PlanTierFree.IsPremium())
	assert.False(t, PlanTier("gold").IsValid())
	assert.True(t, SubscriptionStatusPaused.IsValid())

	_, err := NewFreeEntitlement("", now)
	assert.Error(t, err)
}
