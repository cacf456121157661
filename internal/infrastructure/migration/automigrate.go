package migration

import (
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the tables owned by this service. casbin_rule is
// created by the casbin gorm adapter.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PaymentModel{},
		&models.SubscriptionModel{},
		&models.EntitlementModel{},
		&models.WebhookEventModel{},
	}
}
