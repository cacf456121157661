package dto

import (
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// PaymentDTO is the client view of a payment. The contact email is masked
// because guest payments are readable by anyone holding the id.
type PaymentDTO struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	PlanKind     string     `json:"planKind"`
	Amount       int64      `json:"amount"`
	Currency     string     `json:"currency"`
	ContactEmail string     `json:"contactEmail"`
	IsGuest      bool       `json:"isGuest"`
	QRCode       string     `json:"qrCode,omitempty"`
	QRCodeBase64 string     `json:"qrCodeBase64,omitempty"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	LinkedAt     *time.Time `json:"linkedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func ToPaymentDTO(p *payment.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:           p.ID(),
		Status:       p.Status().String(),
		PlanKind:     p.PlanKind().String(),
		Amount:       p.Amount().AmountInCents(),
		Currency:     p.Amount().Currency(),
		ContactEmail: utils.MaskEmail(p.ContactEmail()),
		IsGuest:      p.IsGuest(),
		QRCode:       p.QRCode(),
		ExpiresAt:    p.ExpiresAt(),
		PaidAt:       p.PaidAt(),
		LinkedAt:     p.LinkedAt(),
		CreatedAt:    p.CreatedAt(),
	}
}

// ActivationDTO is the polling contract. ready is true only when all three
// flags were read true from the stores.
type ActivationDTO struct {
	PaymentID           string `json:"paymentId"`
	PaymentApproved     bool   `json:"paymentApproved"`
	ProfileActivated    bool   `json:"profileActivated"`
	SubscriptionCreated bool   `json:"subscriptionCreated"`
	Ready               bool   `json:"ready"`
	AwaitingLink        bool   `json:"awaitingLink"`
	// ActiveSubscriptionExists is set when the owner already holds another
	// subscription, so this payment is left paid but not activated.
	ActiveSubscriptionExists bool               `json:"activeSubscriptionExists"`
	RetryAfterSeconds        int                `json:"retryAfterSeconds,omitempty"`
	Debug                    ActivationDebugDTO `json:"debug"`
}

type ActivationDebugDTO struct {
	Reason             string     `json:"reason,omitempty"`
	Retry              bool       `json:"retry"`
	PaymentStatus      string     `json:"paymentStatus"`
	GatewayStatus      string     `json:"gatewayStatus,omitempty"`
	SubscriptionID     string     `json:"subscriptionId,omitempty"`
	SubscriptionStatus string     `json:"subscriptionStatus,omitempty"`
	NextPaymentDate    *time.Time `json:"nextPaymentDate,omitempty"`
	EntitlementTier    string     `json:"entitlementTier,omitempty"`
	EntitlementStatus  string     `json:"entitlementStatus,omitempty"`
	Effects            []string   `json:"effects,omitempty"`
}

// ToActivationDTO converts an outcome. retryAfter is only advertised while
// polling can still change the result.
func ToActivationDTO(out *activation.Outcome, retryAfter time.Duration) *ActivationDTO {
	if out == nil {
		return nil
	}
	d := &ActivationDTO{
		PaymentID:                out.PaymentID,
		PaymentApproved:          out.PaymentApproved,
		ProfileActivated:         out.ProfileActivated,
		SubscriptionCreated:      out.SubscriptionCreated,
		Ready:                    out.Ready,
		AwaitingLink:             out.AwaitingLink,
		ActiveSubscriptionExists: out.Refused,
		Debug: ActivationDebugDTO{
			Reason:             string(out.Reason),
			Retry:              out.Retry,
			PaymentStatus:      out.PaymentStatus.String(),
			GatewayStatus:      out.GatewayStatus.String(),
			SubscriptionID:     out.SubscriptionID,
			SubscriptionStatus: out.SubscriptionStatus.String(),
			NextPaymentDate:    out.NextPaymentDate,
			EntitlementTier:    out.EntitlementTier.String(),
			EntitlementStatus:  out.EntitlementStatus.String(),
		},
	}
	if !out.Ready && !out.Refused && retryAfter > 0 {
		d.RetryAfterSeconds = int(retryAfter / time.Second)
	}
	for _, e := range out.Effects {
		d.Debug.Effects = append(d.Debug.Effects, string(e))
	}
	return d
}

// PaymentStatusDTO is the read-only snapshot returned by the status endpoint.
type PaymentStatusDTO struct {
	Payment    *PaymentDTO    `json:"payment"`
	Activation *ActivationDTO `json:"activation"`
}

type LinkedItemDTO struct {
	PaymentID  string         `json:"paymentId"`
	PlanKind   string         `json:"planKind"`
	Amount     int64          `json:"amount"`
	PaidAt     *time.Time     `json:"paidAt,omitempty"`
	Activation *ActivationDTO `json:"activation"`
}

type LinkGuestResultDTO struct {
	Linked bool             `json:"linked"`
	Items  []*LinkedItemDTO `json:"items"`
}

// WebhookResultDTO tells the gateway whether the notification was handled.
type WebhookResultDTO struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Ignored   bool   `json:"ignored,omitempty"`
	PaymentID string `json:"paymentId,omitempty"`
	Ready     bool   `json:"ready"`
}
