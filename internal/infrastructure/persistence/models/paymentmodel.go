package models

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
)

type PaymentModel struct {
	ID               string    `gorm:"primaryKey;size:64"`
	OwnerID          *string   `gorm:"size:64;index:idx_payments_email_owner,priority:2"`
	ContactEmail     string    `gorm:"size:255;not null;index:idx_payments_email_owner,priority:1"`
	Amount           int64     `gorm:"not null"`
	Currency         string    `gorm:"size:10;not null;default:'BRL'"`
	PlanKind         string    `gorm:"size:20;not null"`
	Status           string    `gorm:"size:20;not null;index:idx_payments_status_expires,priority:1;index:idx_payments_email_owner,priority:3"`
	GatewayReference string    `gorm:"size:64;not null"`
	QRCode           string    `gorm:"type:text"`
	ExpiresAt        time.Time `gorm:"not null;index:idx_payments_status_expires,priority:2"`
	PaidAt           *time.Time
	LinkedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
