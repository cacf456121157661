// Package gateway talks to the PIX payment provider over HTTP.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

const headerIdempotencyKey = "X-Idempotency-Key"

// providerID decodes payment ids the provider sends either as JSON numbers
// or as strings.
type providerID string

func (p *providerID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		s = ""
	}
	*p = providerID(s)
	return nil
}

type createPaymentBody struct {
	TransactionAmount float64   `json:"transaction_amount"`
	Description       string    `json:"description"`
	PaymentMethodID   string    `json:"payment_method_id"`
	ExternalReference string    `json:"external_reference"`
	NotificationURL   string    `json:"notification_url,omitempty"`
	DateOfExpiration  string    `json:"date_of_expiration"`
	Payer             payerBody `json:"payer"`
	Metadata          *metadata `json:"metadata,omitempty"`
}

type payerBody struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

type metadata struct {
	Currency string `json:"currency"`
}

type paymentResource struct {
	ID                 providerID `json:"id"`
	Status             string     `json:"status"`
	DateApproved       *time.Time `json:"date_approved"`
	DateOfExpiration   *time.Time `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode string `json:"qr_code"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

type errorResource struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// PixClient implements paymentgateway.PaymentGateway against a
// MercadoPago-compatible REST API.
type PixClient struct {
	http   *resty.Client
	logger logger.Interface
}

var _ paymentgateway.PaymentGateway = (*PixClient)(nil)

// NewPixClient builds the client. With a token URL the client authenticates
// through the OAuth2 client-credentials flow; otherwise the client secret is
// sent as a static bearer token.
func NewPixClient(cfg config.GatewayConfig, log logger.Interface) *PixClient {
	var rc *resty.Client
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		rc = resty.NewWithClient(cc.Client(context.Background()))
	} else {
		rc = resty.New().SetAuthToken(cfg.ClientSecret)
	}

	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout()).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &PixClient{
		http:   rc,
		logger: log.With("component", "gateway.pix"),
	}
}

func (c *PixClient) CreatePixPayment(ctx context.Context, req paymentgateway.CreatePixPaymentRequest) (*paymentgateway.CreatePixPaymentResponse, error) {
	key := req.Reference
	if key == "" {
		key = uuid.NewString()
	}

	body := createPaymentBody{
		TransactionAmount: float64(req.Amount) / 100,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: key,
		NotificationURL:   req.NotificationURL,
		DateOfExpiration:  req.ExpiresAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payer: payerBody{
			Email:     req.ContactEmail,
			FirstName: req.PayerName,
		},
	}
	if req.Currency != "" {
		body.Metadata = &metadata{Currency: req.Currency}
	}

	var out paymentResource
	var apiErr errorResource
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(headerIdempotencyKey, key).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/payments")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: create payment returned %d", paymentgateway.ErrGatewayUnavailable, resp.StatusCode())
	}
	if resp.IsError() {
		c.logger.Warnw("gateway rejected payment creation",
			"status", resp.StatusCode(),
			"message", apiErr.Message,
			"reference", key,
		)
		return nil, fmt.Errorf("gateway rejected payment creation (%d): %s", resp.StatusCode(), apiErr.Message)
	}
	if out.ID == "" {
		return nil, errors.New("gateway response has no payment id")
	}

	result := &paymentgateway.CreatePixPaymentResponse{
		PaymentID: string(out.ID),
		QRCode:    out.PointOfInteraction.TransactionData.QRCode,
	}
	if out.DateOfExpiration != nil {
		result.ExpiresAt = out.DateOfExpiration.UTC()
	}
	return result, nil
}

func (c *PixClient) FetchPaymentStatus(ctx context.Context, paymentID string) (*paymentgateway.StatusResult, error) {
	var out paymentResource
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", paymentID).
		SetResult(&out).
		Get("/v1/payments/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, paymentgateway.ErrPaymentNotFound
	case resp.IsError():
		return nil, fmt.Errorf("%w: status lookup returned %d", paymentgateway.ErrGatewayUnavailable, resp.StatusCode())
	}

	result := &paymentgateway.StatusResult{
		PaymentID: paymentID,
		Status:    mapStatus(out.Status),
	}
	if result.Status.IsApproved() && out.DateApproved != nil {
		at := out.DateApproved.UTC()
		result.ApprovedAt = &at
	}
	return result, nil
}

// mapStatus folds provider states into the four the coordinator knows.
// Anything unrecognised reads as pending so it is asked again later.
func mapStatus(s string) paymentgateway.Status {
	switch strings.ToLower(s) {
	case "approved":
		return paymentgateway.StatusApproved
	case "rejected", "cancelled", "canceled", "refunded", "charged_back":
		return paymentgateway.StatusRejected
	case "expired":
		return paymentgateway.StatusExpired
	default:
		return paymentgateway.StatusPending
	}
}
