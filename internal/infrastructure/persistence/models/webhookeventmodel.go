package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
)

type WebhookEventModel struct {
	ID              uint           `gorm:"primarykey"`
	Provider        string         `gorm:"size:32;not null;uniqueIndex:idx_webhook_provider_event,priority:1"`
	EventID         string         `gorm:"size:128;not null;uniqueIndex:idx_webhook_provider_event,priority:2"`
	EventType       string         `gorm:"size:64"`
	PaymentID       string         `gorm:"size:64;not null;index"`
	Payload         datatypes.JSON `gorm:"type:json"`
	SignatureValid  bool           `gorm:"not null;default:false"`
	Attempts        int            `gorm:"not null;default:0"`
	ProcessedAt     *time.Time
	Outcome         string    `gorm:"size:16"`
	ProcessingError string    `gorm:"type:text"`
	ReceivedAt      time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
