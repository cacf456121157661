package dto

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	PlanKind        string     `json:"planKind"`
	StartDate       time.Time  `json:"startDate"`
	NextPaymentDate time.Time  `json:"nextPaymentDate"`
	SourcePaymentID string     `json:"sourcePaymentId"`
	CanceledAt      *time.Time `json:"canceledAt,omitempty"`
}

func ToSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:              s.ID(),
		Status:          s.Status().String(),
		PlanKind:        s.PlanKind().String(),
		StartDate:       s.StartDate(),
		NextPaymentDate: s.NextPaymentDate(),
		SourcePaymentID: s.SourcePaymentID(),
		CanceledAt:      s.CanceledAt(),
	}
}

// CancelSubscriptionResultDTO reports the canceled record and whether access
// was revoked along with it.
type CancelSubscriptionResultDTO struct {
	Subscription       *SubscriptionDTO `json:"subscription"`
	EntitlementRevoked bool             `json:"entitlementRevoked"`
}
