package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

func newLinker(f *fixture) *LinkGuestPaymentsUseCase {
	return NewLinkGuestPaymentsUseCase(f.payments, f.subscriptions, f.coordinator, f.clock, f.log)
}

// paidGuest seeds a guest payment and drives it to paid through the
// coordinator, the way a webhook would.
func paidGuest(t *testing.T, f *fixture, id, email string) {
	t.Helper()
	f.seed(t, testutil.NewTestPayment(id, testutil.WithEmail(email)))
	f.approve(id)
	out, err := f.coordinator.Activate(context.Background(), id)
	require.NoError(t, err)
	require.True(t, out.AwaitingLink)
}

func TestLinkGuestPayments_BindsAndActivatesOnce(t *testing.T) {
	f := newFixture(t)
	paidGuest(t, f, "pay_1", "x@example.com")
	uc := newLinker(f)

	got, err := uc.Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_a",
		ContactEmail: "X@Example.com ",
	})
	require.NoError(t, err)
	require.True(t, got.Linked)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "pay_1", got.Items[0].PaymentID)
	assert.True(t, got.Items[0].Activation.Ready)

	again, err := uc.Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_a",
		ContactEmail: "x@example.com",
	})
	require.NoError(t, err)
	assert.False(t, again.Linked)
	assert.Empty(t, again.Items)

	assert.Equal(t, 1, f.subscriptions.Inserts())
	ent, err := f.entitlements.GetByOwner(context.Background(), "user_a")
	require.NoError(t, err)
	assert.True(t, ent.IsPremiumActive())

	p, err := f.payments.GetByID(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "linked", p.Status().String())
	assert.Equal(t, "user_a", p.OwnerIDValue())
}

func TestLinkGuestPayments_PromotesOnlyMostRecent(t *testing.T) {
	f := newFixture(t)
	paidGuest(t, f, "pay_old", "x@example.com")
	f.clock.Advance(time.Hour)
	paidGuest(t, f, "pay_new", "x@example.com")

	got, err := newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_a",
		ContactEmail: "x@example.com",
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "pay_new", got.Items[0].PaymentID)

	old, err := f.payments.GetByID(context.Background(), "pay_old")
	require.NoError(t, err)
	assert.True(t, old.IsGuest())
}

func TestLinkGuestPayments_NoOpWhenAlreadyActive(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_owned", testutil.WithOwner("user_a")))
	f.approve("pay_owned")
	_, err := f.coordinator.Activate(context.Background(), "pay_owned")
	require.NoError(t, err)
	paidGuest(t, f, "pay_guest", "x@example.com")

	got, err := newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_a",
		ContactEmail: "x@example.com",
	})
	require.NoError(t, err)
	assert.False(t, got.Linked)

	guest, err := f.payments.GetByID(context.Background(), "pay_guest")
	require.NoError(t, err)
	assert.True(t, guest.IsGuest())
}

func TestLinkGuestPayments_NothingToLink(t *testing.T) {
	f := newFixture(t)
	f.seed(t, testutil.NewTestPayment("pay_pending", testutil.WithEmail("x@example.com")))

	got, err := newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_a",
		ContactEmail: "x@example.com",
	})
	require.NoError(t, err)
	assert.False(t, got.Linked)
	assert.NotNil(t, got.Items)
}

func TestLinkGuestPayments_TokenEmailMustMatch(t *testing.T) {
	f := newFixture(t)
	paidGuest(t, f, "pay_1", "victim@example.com")

	_, err := newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{
		Identity:     "user_b",
		ContactEmail: "victim@example.com",
		TokenEmail:   "attacker@example.com",
	})
	assert.True(t, errors.IsForbiddenError(err))

	p, err := f.payments.GetByID(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.True(t, p.IsGuest())
}

func TestLinkGuestPayments_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{Identity: "user_a", ContactEmail: "not-an-email"})
	assert.True(t, errors.IsValidationError(err))

	_, err = newLinker(f).Execute(context.Background(), LinkGuestPaymentsCommand{ContactEmail: "x@example.com"})
	assert.True(t, errors.IsValidationError(err))
}
