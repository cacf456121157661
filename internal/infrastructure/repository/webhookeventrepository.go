package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/webhook"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/mappers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/db"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) CreateIfNotExists(ctx context.Context, ev *webhook.Event) (bool, *webhook.Event, error) {
	model := mappers.WebhookEventToModel(ev)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, nil, fmt.Errorf("failed to record webhook event: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return true, mappers.WebhookEventToDomain(model), nil
	}

	var stored models.WebhookEventModel
	if err := tx.Where("provider = ? AND event_id = ?", ev.Provider(), ev.EventID()).
		First(&stored).Error; err != nil {
		return false, nil, fmt.Errorf("failed to load webhook event: %w", err)
	}
	return false, mappers.WebhookEventToDomain(&stored), nil
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id uint, at time.Time, outcome webhook.Outcome, processingError string) error {
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.WebhookEventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":         gorm.Expr("attempts + 1"),
			"processed_at":     at,
			"outcome":          string(outcome),
			"processing_error": processingError,
			"updated_at":       at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}
