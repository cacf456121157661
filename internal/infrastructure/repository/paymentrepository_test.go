package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	repo := NewPaymentRepository(setupTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a"), testutil.WithPlanKind(vo.PlanKindAnnual))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "user_a", got.OwnerIDValue())
	assert.Equal(t, vo.PlanKindAnnual, got.PlanKind())
	assert.Equal(t, vo.PaymentStatusPending, got.Status())
	assert.Equal(t, int64(1990), got.Amount().AmountInCents())
	assert.Equal(t, "BRL", got.Amount().Currency())
	assert.True(t, got.ExpiresAt().Equal(p.ExpiresAt()))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestPaymentRepository_TransitionToPaidIsConditional(t *testing.T) {
	repo := NewPaymentRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_1")))

	paidAt := testutil.BaseTime.Add(time.Minute)
	won, err := repo.TransitionToPaid(ctx, "pay_1", paidAt)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.TransitionToPaid(ctx, "pay_1", paidAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, won, "second caller must lose")

	got, err := repo.GetByID(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentStatusPaid, got.Status())
	require.NotNil(t, got.PaidAt())
	assert.True(t, got.PaidAt().Equal(paidAt))

	won, err = repo.TransitionToExpired(ctx, "pay_1", paidAt)
	require.NoError(t, err)
	assert.False(t, won, "paid payments never expire")
}

func TestPaymentRepository_BindGuestOwner(t *testing.T) {
	repo := NewPaymentRepository(setupTestDB(t))
	ctx := context.Background()
	at := testutil.BaseTime.Add(time.Hour)

	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_pending")))
	won, err := repo.BindGuestOwner(ctx, "pay_pending", "user_a", at)
	require.NoError(t, err)
	assert.False(t, won, "unpaid payments are not linkable")

	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_paid")))
	_, err = repo.TransitionToPaid(ctx, "pay_paid", at)
	require.NoError(t, err)

	won, err = repo.BindGuestOwner(ctx, "pay_paid", "user_a", at)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.BindGuestOwner(ctx, "pay_paid", "user_b", at)
	require.NoError(t, err)
	assert.False(t, won)

	got, err := repo.GetByID(ctx, "pay_paid")
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentStatusLinked, got.Status())
	assert.Equal(t, "user_a", got.OwnerIDValue())
	assert.NotNil(t, got.LinkedAt())
}

func TestPaymentRepository_FindLatestPaidGuestByEmail(t *testing.T) {
	repo := NewPaymentRepository(setupTestDB(t))
	ctx := context.Background()

	for i, id := range []string{"pay_old", "pay_new"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestPayment(id, testutil.WithEmail("guest@example.com"))))
		_, err := repo.TransitionToPaid(ctx, id, testutil.BaseTime.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_unpaid", testutil.WithEmail("guest@example.com"))))

	got, err := repo.FindLatestPaidGuestByEmail(ctx, " Guest@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pay_new", got.ID())

	got, err = repo.FindLatestPaidGuestByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPaymentRepository_Sweeps(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewPaymentRepository(gdb)
	subs := NewSubscriptionRepository(gdb)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_overdue")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_fresh",
		testutil.WithExpiresAt(testutil.BaseTime.Add(4*time.Hour)))))

	overdue, err := repo.ListOverduePending(ctx, testutil.BaseTime.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "pay_overdue", overdue[0].ID())

	for _, id := range []string{"pay_owned", "pay_done"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestPayment(id, testutil.WithOwner("user_"+id))))
		_, err := repo.TransitionToPaid(ctx, id, testutil.BaseTime)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestPayment("pay_guest")))
	_, err = repo.TransitionToPaid(ctx, "pay_guest", testutil.BaseTime)
	require.NoError(t, err)

	sub, err := subscription.NewAuthorized("sub_1", subscription.ActivationSource{
		PaymentID: "pay_done", OwnerID: "user_pay_done", PlanKind: vo.PlanKindMonthly,
	}, testutil.BaseTime)
	require.NoError(t, err)
	_, err = subs.CreateIfAbsent(ctx, sub)
	require.NoError(t, err)

	stuck, err := repo.ListPaidWithoutSubscription(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, "pay_owned", stuck[0].ID())
}
