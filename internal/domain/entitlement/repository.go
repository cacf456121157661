package entitlement

import (
	"context"
	"time"
)

type EntitlementRepository interface {
	// GetByOwner returns nil, nil when the identity has no entitlement yet.
	GetByOwner(ctx context.Context, ownerID string) (*Entitlement, error)

	// UpsertGrant creates or updates the owner's row to active premium access
	// backed by subscriptionID, but only while that subscription is still
	// authorized for ownerID. granted is false when it no longer is. A cancel
	// racing the grant either lands first and prevents it, or lands after and
	// revokes it. An admin tier is kept.
	UpsertGrant(ctx context.Context, ownerID, subscriptionID string, at time.Time) (granted bool, err error)

	// Revoke ends access only while the row is backed by subscriptionID and
	// reports whether it changed anything.
	Revoke(ctx context.Context, ownerID, subscriptionID string, at time.Time) (bool, error)
}
