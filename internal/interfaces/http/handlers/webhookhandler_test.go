package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type mockProcessWebhook struct {
	got    usecases.ProcessWebhookCommand
	result *dto.WebhookResultDTO
	err    error
}

func (m *mockProcessWebhook) Execute(_ context.Context, cmd usecases.ProcessWebhookCommand) (*dto.WebhookResultDTO, error) {
	m.got = cmd
	return m.result, m.err
}

func postWebhook(h *WebhookHandler, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	h.Handle(c)
	return w
}

func TestWebhookHandler_PassesDeliveryThrough(t *testing.T) {
	uc := &mockProcessWebhook{result: &dto.WebhookResultDTO{Received: true, PaymentID: "123", Ready: true}}
	h := NewWebhookHandler(uc, logger.NewNopLogger())

	w := postWebhook(h, "/api/webhooks/payments?data.id=123", `{"action":"payment.updated"}`, map[string]string{
		"X-Signature":  "ts=1,v1=abc",
		"X-Request-Id": "req-9",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"action":"payment.updated"}`, string(uc.got.Body))
	assert.Equal(t, "ts=1,v1=abc", uc.got.SignatureHeader)
	assert.Equal(t, "req-9", uc.got.RequestID)
	assert.Equal(t, "123", uc.got.QueryDataID)
}

func TestWebhookHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"malformed", errors.NewValidationError("malformed webhook payload"), http.StatusBadRequest},
		{"bad signature", errors.NewUnauthorizedError("invalid webhook signature"), http.StatusUnauthorized},
		{"gateway down", errors.NewServiceUnavailableError("payment gateway unavailable, retry later"), http.StatusServiceUnavailable},
		{"store down", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebhookHandler(&mockProcessWebhook{err: tt.err}, logger.NewNopLogger())

			w := postWebhook(h, "/api/webhooks/payments", `{"data":{"id":"1"}}`, nil)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
