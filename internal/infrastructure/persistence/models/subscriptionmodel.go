package models

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
)

// SubscriptionModel keeps one row per activation. ActiveOwnerKey equals
// OwnerID while the row is authorized and NULL otherwise, so its unique index
// allows any number of ended rows but a single authorized one per owner.
type SubscriptionModel struct {
	ID              string    `gorm:"primaryKey;size:64"`
	OwnerID         string    `gorm:"size:64;not null;index"`
	Status          string    `gorm:"size:20;not null"`
	PlanKind        string    `gorm:"size:20;not null"`
	StartDate       time.Time `gorm:"not null"`
	NextPaymentDate time.Time `gorm:"not null"`
	SourcePaymentID string    `gorm:"size:64;not null;uniqueIndex"`
	ActiveOwnerKey  *string   `gorm:"size:64;uniqueIndex"`
	CanceledAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
