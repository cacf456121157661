package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

type fixture struct {
	payments      *testutil.MockPaymentRepository
	subscriptions *testutil.MockSubscriptionRepository
	entitlements  *testutil.MockEntitlementRepository
	events        *testutil.MockWebhookEventRepository
	gateway       *paymentgateway.MockGateway
	clock         *biztime.FixedClock
	coordinator   *activation.Coordinator
	log           logger.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		subscriptions: testutil.NewMockSubscriptionRepository(),
		events:        testutil.NewMockWebhookEventRepository(),
		gateway:       paymentgateway.NewMockGateway(),
		clock:         biztime.NewFixedClock(testutil.BaseTime),
		log:           logger.NewNopLogger(),
	}
	f.payments = testutil.NewMockPaymentRepository(f.subscriptions)
	f.entitlements = testutil.NewMockEntitlementRepository(f.subscriptions)
	f.coordinator = activation.NewCoordinator(
		f.payments, f.subscriptions, f.entitlements, f.gateway, f.log,
		activation.WithClock(f.clock),
		activation.WithSubscriptionIDGenerator(testutil.MockSubscriptionIDGenerator()),
		activation.WithGatewayTimeout(time.Second),
	)
	return f
}

func (f *fixture) seed(t *testing.T, p *payment.Payment) {
	t.Helper()
	require.NoError(t, f.payments.Create(context.Background(), p))
}

// approve registers id as approved at the gateway.
func (f *fixture) approve(id string) {
	f.gateway.SetStatus(id, paymentgateway.StatusApproved, f.clock.Now())
}

// cancel ends the owner's authorized subscription the way the cancel use
// case does.
func (f *fixture) cancel(t *testing.T, ownerID string) {
	t.Helper()
	ctx := context.Background()
	sub, err := f.subscriptions.GetAuthorizedByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	won, err := f.subscriptions.TransitionToCanceled(ctx, sub.ID(), f.clock.Now())
	require.NoError(t, err)
	require.True(t, won)
	_, err = f.entitlements.Revoke(ctx, ownerID, sub.ID(), f.clock.Now())
	require.NoError(t, err)
}

func strPtr(s string) *string {
	return &s
}
