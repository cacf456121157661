package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *PixClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPixClient(config.GatewayConfig{
		BaseURL:        srv.URL,
		ClientSecret:   "test-access-token",
		TimeoutSeconds: 2,
	}, logger.NewNopLogger())
}

func TestPixClient_CreatePixPayment(t *testing.T) {
	var got createPaymentBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		assert.Equal(t, "ref-123", r.Header.Get(headerIdempotencyKey))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": 1319780154,
			"status": "pending",
			"date_of_expiration": "2025-03-10T09:30:00.000-03:00",
			"point_of_interaction": {"transaction_data": {"qr_code": "00020126580014br.gov.bcb.pix"}}
		}`))
	})

	resp, err := client.CreatePixPayment(context.Background(), paymentgateway.CreatePixPaymentRequest{
		Reference:    "ref-123",
		Amount:       1990,
		Currency:     "BRL",
		ContactEmail: "buyer@example.com",
		PayerName:    "Ana",
		Description:  "CorretorIA - monthly",
		ExpiresAt:    time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "1319780154", resp.PaymentID)
	assert.Equal(t, "00020126580014br.gov.bcb.pix", resp.QRCode)
	assert.True(t, resp.ExpiresAt.Equal(time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)))

	assert.InDelta(t, 19.90, got.TransactionAmount, 0.0001)
	assert.Equal(t, "pix", got.PaymentMethodID)
	assert.Equal(t, "ref-123", got.ExternalReference)
	assert.Equal(t, "buyer@example.com", got.Payer.Email)
}

func TestPixClient_CreatePixPaymentErrors(t *testing.T) {
	t.Run("rejected request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid payer email"}`))
		})
		_, err := client.CreatePixPayment(context.Background(), paymentgateway.CreatePixPaymentRequest{Reference: "r"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, paymentgateway.ErrGatewayUnavailable)
		assert.Contains(t, err.Error(), "invalid payer email")
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.CreatePixPayment(context.Background(), paymentgateway.CreatePixPaymentRequest{Reference: "r"})
		assert.ErrorIs(t, err, paymentgateway.ErrGatewayUnavailable)
	})
}

func TestPixClient_FetchPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		want     paymentgateway.Status
		approved bool
		wantErr  error
	}{
		{"approved", 200, `{"id":"42","status":"approved","date_approved":"2025-03-10T09:05:00.000-03:00"}`, paymentgateway.StatusApproved, true, nil},
		{"pending", 200, `{"id":42,"status":"pending"}`, paymentgateway.StatusPending, false, nil},
		{"in process", 200, `{"id":42,"status":"in_process"}`, paymentgateway.StatusPending, false, nil},
		{"cancelled", 200, `{"id":42,"status":"cancelled"}`, paymentgateway.StatusRejected, false, nil},
		{"expired", 200, `{"id":42,"status":"expired"}`, paymentgateway.StatusExpired, false, nil},
		{"not found", 404, `{"message":"not found"}`, "", false, paymentgateway.ErrPaymentNotFound},
		{"unavailable", 503, ``, "", false, paymentgateway.ErrGatewayUnavailable},
		{"unauthorized", 401, `{"message":"bad token"}`, "", false, paymentgateway.ErrGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/payments/42", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := client.FetchPaymentStatus(context.Background(), "42")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "42", res.PaymentID)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.approved, res.ApprovedAt != nil)
		})
	}
}

func TestPixClient_RespectsContextDeadline(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchPaymentStatus(ctx, "42")
	assert.ErrorIs(t, err, paymentgateway.ErrGatewayUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPixClient_ClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"issued-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/payments/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"status":"pending"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewPixClient(config.GatewayConfig{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
		ClientID:     "id",
		ClientSecret: "secret",
	}, logger.NewNopLogger())

	res, err := client.FetchPaymentStatus(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusPending, res.Status)
}

func TestNewFallsBackToInMemoryGateway(t *testing.T) {
	gw := New(config.GatewayConfig{}, logger.NewNopLogger())
	_, ok := gw.(*paymentgateway.MockGateway)
	assert.True(t, ok)
}
