package mappers

import (
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               p.ID(),
		OwnerID:          p.OwnerID(),
		ContactEmail:     p.ContactEmail(),
		Amount:           p.Amount().AmountInCents(),
		Currency:         p.Amount().Currency(),
		PlanKind:         p.PlanKind().String(),
		Status:           p.Status().String(),
		GatewayReference: p.GatewayReference(),
		QRCode:           p.QRCode(),
		ExpiresAt:        p.ExpiresAt(),
		PaidAt:           p.PaidAt(),
		LinkedAt:         p.LinkedAt(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	status := vo.PaymentStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", model.Status)
	}

	kind, err := vo.ParsePlanKind(model.PlanKind)
	if err != nil {
		return nil, fmt.Errorf("invalid plan kind: %w", err)
	}

	return payment.ReconstructPayment(payment.PaymentReconstructParams{
		ID:               model.ID,
		OwnerID:          model.OwnerID,
		ContactEmail:     model.ContactEmail,
		Amount:           vo.NewMoney(model.Amount, model.Currency),
		PlanKind:         kind,
		Status:           status,
		GatewayReference: model.GatewayReference,
		QRCode:           model.QRCode,
		ExpiresAt:        model.ExpiresAt,
		PaidAt:           model.PaidAt,
		LinkedAt:         model.LinkedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}), nil
}

func PaymentsToDomain(rows []models.PaymentModel) ([]*payment.Payment, error) {
	out := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		p, err := PaymentToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
