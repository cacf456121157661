package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

func TestGetPaymentStatus_IsReadOnly(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.approve("pay_1")
	uc := NewGetPaymentStatusUseCase(f.payments, f.coordinator, f.log)

	got, err := uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: "pay_1", Identity: strPtr("user_a")})
	require.NoError(t, err)

	assert.Equal(t, "pending", got.Payment.Status)
	assert.False(t, got.Activation.Ready)
	assert.Equal(t, "awaiting_payment", got.Activation.Debug.Reason)
	assert.Equal(t, 0, f.gateway.StatusCalls())
	assert.Equal(t, 0, f.subscriptions.Inserts())
}

func TestGetPaymentStatus_ReflectsActivation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")))
	f.approve("pay_1")
	_, err := f.coordinator.Activate(context.Background(), "pay_1")
	require.NoError(t, err)

	got, err := NewGetPaymentStatusUseCase(f.payments, f.coordinator, f.log).Execute(context.Background(),
		GetPaymentStatusQuery{PaymentID: "pay_1", Identity: strPtr("user_a")})
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Payment.Status)
	assert.NotNil(t, got.Payment.PaidAt)
	assert.True(t, got.Activation.Ready)
}

func TestGetPaymentStatus_Authorization(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_owned", testutil.WithOwner("user_a")))
	f.seed(t, testutil.NewTestPayment("pay_guest"))
	uc := NewGetPaymentStatusUseCase(f.payments, f.coordinator, f.log)

	_, err := uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: "pay_owned", Identity: strPtr("user_b")})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: "pay_owned"})
	assert.True(t, errors.IsUnauthorizedError(err))

	got, err := uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: "pay_guest", Identity: strPtr("user_b")})
	require.NoError(t, err)
	assert.True(t, got.Payment.IsGuest)

	_, err = uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: ""})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), GetPaymentStatusQuery{PaymentID: "missing"})
	assert.True(t, errors.IsNotFoundError(err))
}
