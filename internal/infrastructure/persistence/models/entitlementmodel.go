package models

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
)

// EntitlementModel is the single plan row per identity.
type EntitlementModel struct {
	ID                     uint    `gorm:"primarykey"`
	OwnerID                string  `gorm:"size:64;not null;uniqueIndex"`
	PlanTier               string  `gorm:"size:20;not null;default:free"`
	SubscriptionStatus     string  `gorm:"size:20;not null;default:inactive"`
	ExternalSubscriptionID *string `gorm:"size:64"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (EntitlementModel) TableName() string {
	return constants.TableEntitlements
}
