package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
)

func TestExpirePayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, testutil.NewTestPayment("pay_stale", testutil.WithOwner("user_a")))
	f.gateway.SetStatus("pay_stale", paymentgateway.StatusPending, f.clock.Now())

	f.seed(t, testutil.NewTestPayment("pay_late", testutil.WithOwner("user_b")))
	f.approve("pay_late")

	f.seed(t, testutil.NewTestPayment("pay_unknown"))

	f.seed(t, testutil.NewTestPayment("pay_fresh", testutil.WithExpiresAt(testutil.BaseTime.Add(3*time.Hour))))

	f.clock.Advance(time.Hour)
	uc := NewExpirePaymentsUseCase(f.payments, f.gateway, f.coordinator, f.clock, time.Second, 100, f.log)

	res, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 2, res.Expired)
	assert.Equal(t, 1, res.Activated)
	assert.Equal(t, 0, res.Skipped)

	for id, want := range map[string]string{
		"pay_stale":   "expired",
		"pay_unknown": "expired",
		"pay_late":    "paid",
		"pay_fresh":   "pending",
	} {
		p, err := f.payments.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, p.Status().String(), id)
	}

	ent, err := f.entitlements.GetByOwner(ctx, "user_b")
	require.NoError(t, err)
	require.NotNil(t, ent)
	assert.True(t, ent.IsPremiumActive())
}

func TestExpirePayments_GatewayOutageKeepsPending(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1"))
	f.gateway.SetStatus("pay_1", paymentgateway.StatusPending, f.clock.Now())
	f.gateway.FailNext(1)
	f.clock.Advance(time.Hour)

	res, err := NewExpirePaymentsUseCase(f.payments, f.gateway, f.coordinator, f.clock, time.Second, 100, f.log).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	p, err := f.payments.GetByID(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "pending", p.Status().String())
}
