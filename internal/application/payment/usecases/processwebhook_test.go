package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/webhook"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

type stubVerifier struct {
	enabled bool
	valid   bool
}

func (s stubVerifier) Enabled() bool { return s.enabled }

func (s stubVerifier) Verify(paymentID, requestID, signatureHeader string) bool { return s.valid }

func newWebhook(f *fixture, v stubVerifier) *ProcessWebhookUseCase {
	return NewProcessWebhookUseCase(f.coordinator, f.events, v, f.clock, f.log)
}

func TestProcessWebhook_ActivatesFromGatewayStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.approve("pay_1")

	got, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{
		Body: []byte(`{"id":9001,"type":"payment","action":"payment.updated","data":{"id":"pay_1"}}`),
	})
	require.NoError(t, err)
	assert.True(t, got.Received)
	assert.True(t, got.Ready)
	assert.Equal(t, "pay_1", got.PaymentID)

	ev := f.events.Get(constants.WebhookProviderPix, "9001")
	require.NotNil(t, ev)
	assert.True(t, ev.IsSettled())
	assert.Equal(t, webhook.OutcomeReady, ev.Outcome())
	assert.Equal(t, "payment.updated", ev.EventType())
}

func TestProcessWebhook_PayloadStatusIsNotTrusted(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.gateway.SetStatus("pay_1", "pending", f.clock.Now())

	got, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{
		Body: []byte(`{"type":"payment","data":{"id":"pay_1","status":"approved"}}`),
	})
	require.NoError(t, err)
	assert.False(t, got.Ready)
	assert.Equal(t, 0, f.subscriptions.Inserts())
}

func TestProcessWebhook_DuplicateDeliveryIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.approve("pay_1")
	uc := newWebhook(f, stubVerifier{})
	body := []byte(`{"id":"evt_1","data":{"id":"pay_1"}}`)

	_, err := uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	calls := f.gateway.StatusCalls()

	got, err := uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	assert.True(t, got.Duplicate)
	assert.Equal(t, calls, f.gateway.StatusCalls())
	assert.Equal(t, 1, f.subscriptions.Inserts())
}

func TestProcessWebhook_SameBodyAfterApprovalActivates(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.gateway.SetStatus("pay_1", "pending", f.clock.Now())
	uc := newWebhook(f, stubVerifier{})
	body := []byte(`{"type":"payment","data":{"id":"pay_1"}}`)

	got, err := uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	assert.False(t, got.Ready)
	assert.Equal(t, 0, f.subscriptions.Inserts())

	f.approve("pay_1")

	got, err = uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	assert.False(t, got.Duplicate)
	assert.True(t, got.Ready)
	assert.Equal(t, 1, f.subscriptions.Inserts())

	got, err = uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	assert.True(t, got.Duplicate)
	assert.Equal(t, 1, f.subscriptions.Inserts())
}

func TestProcessWebhook_QueryOnlyDeliveriesAreKeptApart(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.seed(t, testutil.NewTestPayment("pay_2", testutil.WithOwner("user_b")))
	f.approve("pay_1")
	f.approve("pay_2")
	uc := newWebhook(f, stubVerifier{})

	first, err := uc.Execute(context.Background(), ProcessWebhookCommand{QueryDataID: "pay_1"})
	require.NoError(t, err)
	assert.True(t, first.Ready)

	second, err := uc.Execute(context.Background(), ProcessWebhookCommand{QueryDataID: "pay_2"})
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.True(t, second.Ready)
	assert.Equal(t, "pay_2", second.PaymentID)
	assert.Equal(t, 2, f.subscriptions.Inserts())
}

func TestProcessWebhook_FailedReceiptIsReprocessed(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.approve("pay_1")
	f.gateway.FailNext(1)
	uc := newWebhook(f, stubVerifier{})
	body := []byte(`{"id":"evt_1","data":{"id":"pay_1"}}`)

	_, err := uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailableError(err))

	ev := f.events.Get(constants.WebhookProviderPix, "evt_1")
	require.NotNil(t, ev)
	assert.False(t, ev.IsSettled())
	assert.Equal(t, webhook.OutcomeRetry, ev.Outcome())
	assert.Equal(t, "gateway_unavailable", ev.ProcessingError())

	got, err := uc.Execute(context.Background(), ProcessWebhookCommand{Body: body})
	require.NoError(t, err)
	assert.False(t, got.Duplicate)
	assert.True(t, got.Ready)
	assert.Equal(t, 2, f.events.Get(constants.WebhookProviderPix, "evt_1").Attempts())
}

func TestProcessWebhook_UnknownPaymentIsIgnored(t *testing.T) {
	f := newFixture(t)

	got, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{
		Body: []byte(`{"data":{"id":"nope"}}`),
	})
	require.NoError(t, err)
	assert.True(t, got.Ignored)
}

func TestProcessWebhook_Malformed(t *testing.T) {
	tests := []struct {
		name string
		cmd  ProcessWebhookCommand
	}{
		{"invalid json", ProcessWebhookCommand{Body: []byte(`{"data":`)}},
		{"missing payment id", ProcessWebhookCommand{Body: []byte(`{"type":"payment"}`)}},
		{"empty body without query id", ProcessWebhookCommand{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), tt.cmd)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestProcessWebhook_QueryParameterID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("123", testutil.WithOwner("user_a")))
	f.approve("123")

	got, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{QueryDataID: "123"})
	require.NoError(t, err)
	assert.True(t, got.Ready)
}

func TestProcessWebhook_NumericDataID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("123456", testutil.WithOwner("user_a")))
	f.approve("123456")

	got, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{
		Body: []byte(`{"data":{"id":123456}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "123456", got.PaymentID)
}

func TestProcessWebhook_Signature(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
		f.approve("pay_1")

		_, err := newWebhook(f, stubVerifier{enabled: true, valid: false}).Execute(context.Background(), ProcessWebhookCommand{
			Body: []byte(`{"data":{"id":"pay_1"}}`),
		})
		assert.True(t, errors.IsUnauthorizedError(err))
		assert.Equal(t, 0, f.subscriptions.Inserts())
	})

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
		f.approve("pay_1")

		got, err := newWebhook(f, stubVerifier{enabled: true, valid: true}).Execute(context.Background(), ProcessWebhookCommand{
			Body: []byte(`{"id":"evt_9","data":{"id":"pay_1"}}`),
		})
		require.NoError(t, err)
		assert.True(t, got.Ready)
		assert.True(t, f.events.Get(constants.WebhookProviderPix, "evt_9").SignatureValid())
	})
}

func TestProcessWebhook_StoreErrorIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.events.SetCreateError(assert.AnError)

	_, err := newWebhook(f, stubVerifier{}).Execute(context.Background(), ProcessWebhookCommand{
		Body: []byte(`{"data":{"id":"pay_1"}}`),
	})
	require.Error(t, err)
	assert.False(t, errors.IsAppError(err))
}
