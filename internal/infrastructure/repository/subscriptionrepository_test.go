package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	paymentvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
)

func newAuthorized(t *testing.T, id, paymentID, owner string) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewAuthorized(id, subscription.ActivationSource{
		PaymentID: paymentID,
		OwnerID:   owner,
		PlanKind:  paymentvo.PlanKindMonthly,
	}, testutil.BaseTime)
	require.NoError(t, err)
	return sub
}

func TestSubscriptionRepository_CreateIfAbsentIsIdempotentPerPayment(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, newAuthorized(t, "sub_1", "pay_1", "user_a"))
	require.NoError(t, err)
	assert.True(t, created)

	// a second activation of the same payment with a fresh id is a no-op
	created, err = repo.CreateIfAbsent(ctx, newAuthorized(t, "sub_2", "pay_1", "user_a"))
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetBySourcePaymentID(ctx, "pay_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sub_1", got.ID())
	assert.Equal(t, vo.StatusAuthorized, got.Status())
}

func TestSubscriptionRepository_OneAuthorizedPerOwner(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t))
	ctx := context.Background()

	first := newAuthorized(t, "sub_1", "pay_1", "user_a")
	_, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)

	_, err = repo.CreateIfAbsent(ctx, newAuthorized(t, "sub_2", "pay_2", "user_a"))
	assert.ErrorIs(t, err, subscription.ErrActiveSubscriptionExists)

	won, err := repo.TransitionToCanceled(ctx, "sub_1", testutil.BaseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.TransitionToCanceled(ctx, "sub_1", testutil.BaseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, won)

	created, err := repo.CreateIfAbsent(ctx, newAuthorized(t, "sub_2", "pay_2", "user_a"))
	require.NoError(t, err)
	assert.True(t, created)

	active, err := repo.GetAuthorizedByOwner(ctx, "user_a")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "sub_2", active.ID())

	canceled, err := repo.GetByID(ctx, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCanceled, canceled.Status())
	assert.NotNil(t, canceled.CanceledAt())
	assert.Nil(t, canceled.ActiveOwnerKey())
}

func TestSubscriptionRepository_Lookups(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	got, err := repo.GetBySourcePaymentID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetAuthorizedByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}
