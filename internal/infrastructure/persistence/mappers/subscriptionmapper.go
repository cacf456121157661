package mappers

import (
	"fmt"

	paymentvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:              s.ID(),
		OwnerID:         s.OwnerID(),
		Status:          s.Status().String(),
		PlanKind:        s.PlanKind().String(),
		StartDate:       s.StartDate(),
		NextPaymentDate: s.NextPaymentDate(),
		SourcePaymentID: s.SourcePaymentID(),
		ActiveOwnerKey:  s.ActiveOwnerKey(),
		CanceledAt:      s.CanceledAt(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	status := vo.SubscriptionStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	kind, err := paymentvo.ParsePlanKind(model.PlanKind)
	if err != nil {
		return nil, fmt.Errorf("invalid plan kind: %w", err)
	}

	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		Status:          status,
		PlanKind:        kind,
		StartDate:       model.StartDate,
		NextPaymentDate: model.NextPaymentDate,
		SourcePaymentID: model.SourcePaymentID,
		CanceledAt:      model.CanceledAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}), nil
}
