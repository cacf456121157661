package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	apperrors "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

type CreatePixPaymentCommand struct {
	PlanKind     string  `json:"planKind" validate:"required,oneof=monthly annual bundle"`
	ContactEmail string  `json:"contactEmail" validate:"required,email,max=254"`
	PayerName    string  `json:"payerName" validate:"max=120"`
	OwnerID      *string `json:"ownerId"`
	// Identity is the authenticated caller, nil for guests.
	Identity *string `json:"-"`
}

type CreatePixPaymentExecutor interface {
	Execute(ctx context.Context, cmd CreatePixPaymentCommand) (*dto.PaymentDTO, error)
}

// QRRenderer draws the PIX copy-and-paste payload as an image.
type QRRenderer interface {
	RenderBase64PNG(payload string) (string, error)
}

// TextSanitizer strips markup from user-supplied text before it leaves the
// system.
type TextSanitizer interface {
	Sanitize(s string) string
}

type PixPaymentConfig struct {
	Prices          map[vo.PlanKind]int64
	Currency        string
	TTL             time.Duration
	NotificationURL string
	Description     string
}

type CreatePixPaymentUseCase struct {
	paymentRepo payment.PaymentRepository
	gateway     paymentgateway.PaymentGateway
	qr          QRRenderer
	sanitizer   TextSanitizer
	clock       biztime.Clock
	config      PixPaymentConfig
	logger      logger.Interface
}

func NewCreatePixPaymentUseCase(
	paymentRepo payment.PaymentRepository,
	gateway paymentgateway.PaymentGateway,
	qr QRRenderer,
	sanitizer TextSanitizer,
	clock biztime.Clock,
	config PixPaymentConfig,
	logger logger.Interface,
) *CreatePixPaymentUseCase {
	return &CreatePixPaymentUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		qr:          qr,
		sanitizer:   sanitizer,
		clock:       clock,
		config:      config,
		logger:      logger,
	}
}

func (uc *CreatePixPaymentUseCase) Execute(ctx context.Context, cmd CreatePixPaymentCommand) (*dto.PaymentDTO, error) {
	cmd.ContactEmail = utils.NormalizeEmail(cmd.ContactEmail)
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	owner, err := resolveOwner(cmd.OwnerID, cmd.Identity)
	if err != nil {
		uc.logger.Warnw("pix payment owner mismatch", "contact_email", utils.MaskEmail(cmd.ContactEmail))
		return nil, err
	}

	kind, err := vo.ParsePlanKind(cmd.PlanKind)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid plan", err.Error())
	}
	cents, ok := uc.config.Prices[kind]
	if !ok || cents <= 0 {
		return nil, apperrors.NewValidationError("plan is not available", kind.String())
	}
	amount := vo.NewMoney(cents, uc.config.Currency)

	now := uc.clock.Now()
	reference := uuid.New().String()
	payerName := cmd.PayerName
	if uc.sanitizer != nil {
		payerName = uc.sanitizer.Sanitize(payerName)
	}

	resp, err := uc.gateway.CreatePixPayment(ctx, paymentgateway.CreatePixPaymentRequest{
		Reference:       reference,
		Amount:          amount.AmountInCents(),
		Currency:        amount.Currency(),
		ContactEmail:    cmd.ContactEmail,
		PayerName:       payerName,
		Description:     fmt.Sprintf("%s - %s", uc.config.Description, kind),
		ExpiresAt:       now.Add(uc.config.TTL),
		NotificationURL: uc.config.NotificationURL,
	})
	if err != nil {
		uc.logger.Errorw("failed to create pix payment in gateway",
			"error", err,
			"reference", reference,
			"plan_kind", kind,
		)
		if errors.Is(err, paymentgateway.ErrGatewayUnavailable) {
			return nil, apperrors.NewInternalError("payment gateway unavailable")
		}
		return nil, apperrors.NewInternalError("failed to create payment", err.Error())
	}

	expiresAt := resp.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(uc.config.TTL)
	}

	p, err := payment.NewPayment(payment.NewPaymentParams{
		ID:               resp.PaymentID,
		OwnerID:          owner,
		ContactEmail:     cmd.ContactEmail,
		Amount:           amount,
		PlanKind:         kind,
		GatewayReference: reference,
		QRCode:           resp.QRCode,
		ExpiresAt:        expiresAt,
		Now:              now,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("gateway returned an invalid payment", err.Error())
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to save payment", "error", err, "payment_id", p.ID())
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	uc.logger.Infow("pix payment created",
		"payment_id", p.ID(),
		"plan_kind", kind,
		"amount", amount.AmountInCents(),
		"guest", p.IsGuest(),
		"contact_email", utils.MaskEmail(p.ContactEmail()),
	)

	out := dto.ToPaymentDTO(p)
	if uc.qr != nil && resp.QRCode != "" {
		img, err := uc.qr.RenderBase64PNG(resp.QRCode)
		if err != nil {
			uc.logger.Warnw("failed to render pix qr code", "error", err, "payment_id", p.ID())
		} else {
			out.QRCodeBase64 = img
		}
	}
	return out, nil
}

// resolveOwner decides who owns a new payment. An authenticated caller always
// owns it; a claimed owner id must match that caller.
func resolveOwner(claimed, identity *string) (*string, error) {
	hasClaim := claimed != nil && strings.TrimSpace(*claimed) != ""
	hasIdentity := identity != nil && *identity != ""

	switch {
	case hasClaim && !hasIdentity:
		return nil, apperrors.NewUnauthorizedError("authentication required to create a payment for an account")
	case hasClaim && *claimed != *identity:
		return nil, apperrors.NewForbiddenError("ownerId does not match the authenticated user")
	case hasIdentity:
		owner := *identity
		return &owner, nil
	default:
		return nil, nil
	}
}
