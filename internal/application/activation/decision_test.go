package activation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/testutil"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
)

var now = testutil.BaseTime

func paidPayment(t *testing.T, id string, opts ...testutil.PaymentOption) *payment.Payment {
	t.Helper()
	p := testutil.NewTestPayment(id, opts...)
	require.True(t, p.MarkAsPaid(now))
	return p
}

func authorizedSub(t *testing.T, id, paymentID, owner string) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewAuthorized(id, subscription.ActivationSource{
		PaymentID: paymentID,
		OwnerID:   owner,
		PlanKind:  "monthly",
	}, now)
	require.NoError(t, err)
	return sub
}

func grantedEntitlement(t *testing.T, owner, subID string) *entitlement.Entitlement {
	t.Helper()
	e, err := entitlement.NewFreeEntitlement(owner, now)
	require.NoError(t, err)
	e.Grant(subID, now)
	return e
}

func TestDecide_PaymentPhase(t *testing.T) {
	tests := []struct {
		name       string
		gateway    *paymentgateway.StatusResult
		wantAction Action
		wantReason Reason
	}{
		{"no gateway status yet", nil, ActionFetchGatewayStatus, ReasonNone},
		{"approved", &paymentgateway.StatusResult{Status: paymentgateway.StatusApproved}, ActionMarkPaid, ReasonNone},
		{"pending", &paymentgateway.StatusResult{Status: paymentgateway.StatusPending}, ActionNone, ReasonAwaitingPayment},
		{"rejected", &paymentgateway.StatusResult{Status: paymentgateway.StatusRejected}, ActionNone, ReasonPaymentRejected},
		{"expired at gateway", &paymentgateway.StatusResult{Status: paymentgateway.StatusExpired}, ActionNone, ReasonPaymentExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Snapshot{
				Payment: testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a")),
				Gateway: tt.gateway,
			})
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestDecide_ExpiredPaymentNeverFetches(t *testing.T) {
	p := testutil.NewTestPayment("pay_1")
	require.NoError(t, p.MarkAsExpired(now))

	d := Decide(Snapshot{Payment: p})

	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, ReasonPaymentExpired, d.Reason)
}

func TestDecide_PaidPaymentSkipsGateway(t *testing.T) {
	d := Decide(Snapshot{Payment: paidPayment(t, "pay_1", testutil.WithOwner("user_a"))})

	assert.Equal(t, ActionCreateSubscription, d.Action)
	assert.Empty(t, d.Reason)
}

func TestDecide_GuestAwaitsLink(t *testing.T) {
	d := Decide(Snapshot{Payment: paidPayment(t, "pay_1")})

	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, ReasonAwaitingLink, d.Reason)
}

func TestDecide_RefusesWhileOwnerHasActiveSubscription(t *testing.T) {
	active := authorizedSub(t, "sub_old", "pay_0", "user_a")

	d := Decide(Snapshot{
		Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
		ActiveSubscription: active,
	})

	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, ReasonActiveSubscriptionExists, d.Reason)
}

func TestDecide_EntitlementPhase(t *testing.T) {
	src := authorizedSub(t, "sub_1", "pay_1", "user_a")

	t.Run("missing entitlement is granted", func(t *testing.T) {
		d := Decide(Snapshot{
			Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
			SourceSubscription: src,
			ActiveSubscription: src,
		})
		assert.Equal(t, ActionGrantEntitlement, d.Action)
	})

	t.Run("entitlement backed by another record is regranted", func(t *testing.T) {
		d := Decide(Snapshot{
			Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
			SourceSubscription: src,
			ActiveSubscription: src,
			Entitlement:        grantedEntitlement(t, "user_a", "sub_other"),
		})
		assert.Equal(t, ActionGrantEntitlement, d.Action)
	})

	t.Run("matching entitlement completes", func(t *testing.T) {
		d := Decide(Snapshot{
			Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
			SourceSubscription: src,
			ActiveSubscription: src,
			Entitlement:        grantedEntitlement(t, "user_a", "sub_1"),
		})
		assert.Equal(t, ActionNone, d.Action)
		assert.Equal(t, ReasonComplete, d.Reason)
	})

	t.Run("canceled source never regrants", func(t *testing.T) {
		canceled := src.Clone()
		require.NoError(t, canceled.Cancel(now.Add(time.Hour)))

		d := Decide(Snapshot{
			Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
			SourceSubscription: canceled,
		})
		assert.Equal(t, ActionNone, d.Action)
		assert.Equal(t, ReasonComplete, d.Reason)
	})
}

func TestAssess(t *testing.T) {
	src := authorizedSub(t, "sub_1", "pay_1", "user_a")
	canceled := src.Clone()
	require.NoError(t, canceled.Cancel(now))

	tests := []struct {
		name string
		snap Snapshot
		want Readiness
	}{
		{
			name: "pending payment",
			snap: Snapshot{Payment: testutil.NewTestPayment("pay_1", testutil.WithOwner("user_a"))},
			want: Readiness{},
		},
		{
			name: "paid without subscription",
			snap: Snapshot{Payment: paidPayment(t, "pay_1", testutil.WithOwner("user_a"))},
			want: Readiness{PaymentApproved: true},
		},
		{
			name: "subscription without entitlement",
			snap: Snapshot{
				Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
				SourceSubscription: src,
			},
			want: Readiness{PaymentApproved: true, SubscriptionCreated: true},
		},
		{
			name: "fully activated",
			snap: Snapshot{
				Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
				SourceSubscription: src,
				Entitlement:        grantedEntitlement(t, "user_a", "sub_1"),
			},
			want: Readiness{PaymentApproved: true, SubscriptionCreated: true, ProfileActivated: true, Ready: true},
		},
		{
			name: "canceled after activation stays ready",
			snap: Snapshot{
				Payment:            paidPayment(t, "pay_1", testutil.WithOwner("user_a")),
				SourceSubscription: canceled,
			},
			want: Readiness{PaymentApproved: true, SubscriptionCreated: true, ProfileActivated: true, Ready: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assess(tt.snap))
		})
	}
}
