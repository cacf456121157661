package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/mappers"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/db"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) TransitionToPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", id, vo.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     vo.PaymentStatusPaid,
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark payment as paid: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentRepository) TransitionToExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", id, vo.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     vo.PaymentStatusExpired,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark payment as expired: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentRepository) BindGuestOwner(ctx context.Context, id, ownerID string, linkedAt time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND owner_id IS NULL AND status = ?", id, vo.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"owner_id":   ownerID,
			"status":     vo.PaymentStatusLinked,
			"linked_at":  linkedAt,
			"updated_at": linkedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to bind payment owner: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentRepository) FindLatestPaidGuestByEmail(ctx context.Context, contactEmail string) (*payment.Payment, error) {
	var model models.PaymentModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("contact_email = ? AND owner_id IS NULL AND status = ?",
			strings.ToLower(strings.TrimSpace(contactEmail)), vo.PaymentStatusPaid).
		Order("paid_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find guest payment: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) ListOverduePending(ctx context.Context, now time.Time, limit int) ([]*payment.Payment, error) {
	var rows []models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires_at < ?", vo.PaymentStatusPending, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list overdue payments: %w", err)
	}

	return mappers.PaymentsToDomain(rows)
}

func (r *PaymentRepository) ListPaidWithoutSubscription(ctx context.Context, limit int) ([]*payment.Payment, error) {
	var rows []models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("owner_id IS NOT NULL AND status IN ?",
			[]vo.PaymentStatus{vo.PaymentStatusPaid, vo.PaymentStatusLinked}).
		Where("NOT EXISTS (SELECT 1 FROM " + constants.TableSubscriptions +
			" s WHERE s.source_payment_id = " + constants.TablePayments + ".id)").
		Order("paid_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list unactivated payments: %w", err)
	}

	return mappers.PaymentsToDomain(rows)
}
