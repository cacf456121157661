package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/mappers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/db"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// CreateIfAbsent relies on two unique indexes: source_payment_id makes the
// insert idempotent per payment, active_owner_key keeps one authorized row
// per owner. A skipped or rejected insert is told apart by reading the
// source payment's row back.
func (r *SubscriptionRepository) CreateIfAbsent(ctx context.Context, sub *subscription.Subscription) (bool, error) {
	model := mappers.SubscriptionToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_payment_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil && !apperrors.IsDuplicateError(result.Error) {
		return false, fmt.Errorf("failed to create subscription: %w", result.Error)
	}
	if result.Error == nil && result.RowsAffected == 1 {
		return true, nil
	}

	existing, err := r.GetBySourcePaymentID(ctx, sub.SourcePaymentID())
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	return false, subscription.ErrActiveSubscriptionExists
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetBySourcePaymentID(ctx context.Context, paymentID string) (*subscription.Subscription, error) {
	return r.first(ctx, "source_payment_id = ?", paymentID)
}

func (r *SubscriptionRepository) GetAuthorizedByOwner(ctx context.Context, ownerID string) (*subscription.Subscription, error) {
	return r.first(ctx, "owner_id = ? AND status = ?", ownerID, vo.StatusAuthorized)
}

func (r *SubscriptionRepository) TransitionToCanceled(ctx context.Context, id string, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status IN ?", id, []vo.SubscriptionStatus{vo.StatusAuthorized, vo.StatusPaused}).
		Updates(map[string]interface{}{
			"status":           vo.StatusCanceled,
			"active_owner_key": nil,
			"canceled_at":      at,
			"updated_at":       at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to cancel subscription: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepository) first(ctx context.Context, query string, args ...interface{}) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}
