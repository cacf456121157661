package mappers

import (
	"gorm.io/datatypes"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/webhook"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
)

func WebhookEventToModel(e *webhook.Event) *models.WebhookEventModel {
	return &models.WebhookEventModel{
		ID:              e.ID(),
		Provider:        e.Provider(),
		EventID:         e.EventID(),
		EventType:       e.EventType(),
		PaymentID:       e.PaymentID(),
		Payload:         datatypes.JSON(e.Payload()),
		SignatureValid:  e.SignatureValid(),
		Attempts:        e.Attempts(),
		ProcessedAt:     e.ProcessedAt(),
		Outcome:         string(e.Outcome()),
		ProcessingError: e.ProcessingError(),
		ReceivedAt:      e.ReceivedAt(),
	}
}

func WebhookEventToDomain(model *models.WebhookEventModel) *webhook.Event {
	return webhook.ReconstructEvent(webhook.EventReconstructParams{
		ID:              model.ID,
		Provider:        model.Provider,
		EventID:         model.EventID,
		EventType:       model.EventType,
		PaymentID:       model.PaymentID,
		Payload:         []byte(model.Payload),
		SignatureValid:  model.SignatureValid,
		Attempts:        model.Attempts,
		ProcessedAt:     model.ProcessedAt,
		Outcome:         webhook.Outcome(model.Outcome),
		ProcessingError: model.ProcessingError,
		ReceivedAt:      model.ReceivedAt,
	})
}
