package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	subvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/mappers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/db"
)

// keepAdmin evaluates against the stored row, so a manually assigned admin
// tier survives grants and revokes.
func keepAdmin(otherwise entitlement.PlanTier) clause.Expr {
	return gorm.Expr("CASE WHEN plan_tier = ? THEN ? ELSE ? END",
		entitlement.PlanTierAdmin, entitlement.PlanTierAdmin, otherwise)
}

// EntitlementRepository implements entitlement.EntitlementRepository
type EntitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// GetByOwner retrieves the owner's entitlement, or nil when there is none
func (r *EntitlementRepository) GetByOwner(ctx context.Context, ownerID string) (*entitlement.Entitlement, error) {
	var model models.EntitlementModel

	err := db.GetTxFromContext(ctx, r.db).Where("owner_id = ?", ownerID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return mappers.EntitlementToDomain(&model)
}

// UpsertGrant locks the backing subscription row and upserts the entitlement
// only while that row is still authorized. TransitionToCanceled updates the
// same row, so a concurrent cancel waits for this grant and its revoke sees it.
func (r *EntitlementRepository) UpsertGrant(ctx context.Context, ownerID, subscriptionID string, at time.Time) (bool, error) {
	granted := false
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var backing models.SubscriptionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND owner_id = ? AND status = ?", subscriptionID, ownerID, subvo.StatusAuthorized).
			Take(&backing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock backing subscription: %w", err)
		}

		if err := upsertGrant(tx, ownerID, subscriptionID, at); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

func upsertGrant(tx *gorm.DB, ownerID, subscriptionID string, at time.Time) error {
	model := &models.EntitlementModel{
		OwnerID:                ownerID,
		PlanTier:               entitlement.PlanTierPro.String(),
		SubscriptionStatus:     entitlement.SubscriptionStatusActive.String(),
		ExternalSubscriptionID: &subscriptionID,
		CreatedAt:              at,
		UpdatedAt:              at,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan_tier":                keepAdmin(entitlement.PlanTierPro),
			"subscription_status":      entitlement.SubscriptionStatusActive,
			"external_subscription_id": subscriptionID,
			"updated_at":               at,
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}
	return nil
}

// Revoke drops access only while the row is backed by subscriptionID
func (r *EntitlementRepository) Revoke(ctx context.Context, ownerID, subscriptionID string, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.EntitlementModel{}).
		Where("owner_id = ? AND external_subscription_id = ? AND subscription_status <> ?",
			ownerID, subscriptionID, entitlement.SubscriptionStatusCanceled).
		Updates(map[string]interface{}{
			"plan_tier":           keepAdmin(entitlement.PlanTierFree),
			"subscription_status": entitlement.SubscriptionStatusCanceled,
			"updated_at":          at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke entitlement: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
