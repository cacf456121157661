// Package activation turns an approved PIX payment into an authorized
// subscription and premium entitlement. The webhook, the polling verifier,
// the guest-link resolver and the background sweepers all drive the same
// Coordinator, so every path converges on identical state.
package activation

import (
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
)

// Action is the next write needed to move a payment towards activation.
type Action int

const (
	ActionNone Action = iota
	ActionFetchGatewayStatus
	ActionMarkPaid
	ActionCreateSubscription
	ActionGrantEntitlement
)

func (a Action) String() string {
	switch a {
	case ActionFetchGatewayStatus:
		return "fetch_gateway_status"
	case ActionMarkPaid:
		return "mark_paid"
	case ActionCreateSubscription:
		return "create_subscription"
	case ActionGrantEntitlement:
		return "grant_entitlement"
	default:
		return "none"
	}
}

// Reason explains why no further action is possible.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonComplete           Reason = "complete"
	ReasonAwaitingPayment    Reason = "awaiting_payment"
	ReasonPaymentRejected    Reason = "payment_rejected"
	ReasonPaymentExpired     Reason = "payment_expired"
	ReasonAwaitingLink       Reason = "awaiting_link"
	ReasonGatewayUnavailable Reason = "gateway_unavailable"
	ReasonGatewayUnknown     Reason = "gateway_unknown_payment"
	// ReasonActiveSubscriptionExists refuses a second authorized record for
	// an owner. The payment stays paid; a later reconcile activates it once
	// the current record has ended.
	ReasonActiveSubscriptionExists Reason = "active_subscription_exists"
	ReasonIncomplete               Reason = "incomplete"
)

// Snapshot is everything Decide looks at. Gateway is nil until the status has
// been fetched during the current activation.
type Snapshot struct {
	Payment            *payment.Payment
	SourceSubscription *subscription.Subscription
	// ActiveSubscription is the owner's authorized record, which may be the
	// source subscription itself.
	ActiveSubscription *subscription.Subscription
	Entitlement        *entitlement.Entitlement
	Gateway            *paymentgateway.StatusResult
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action
	Reason Reason
}

// Decide picks the single next step for s. It performs no I/O, so the same
// snapshot always yields the same decision.
func Decide(s Snapshot) Decision {
	p := s.Payment

	if !p.IsPaid() {
		if p.Status().IsExpired() {
			return Decision{Action: ActionNone, Reason: ReasonPaymentExpired}
		}
		if s.Gateway == nil {
			return Decision{Action: ActionFetchGatewayStatus}
		}
		switch s.Gateway.Status {
		case paymentgateway.StatusApproved:
			return Decision{Action: ActionMarkPaid}
		case paymentgateway.StatusRejected:
			return Decision{Action: ActionNone, Reason: ReasonPaymentRejected}
		case paymentgateway.StatusExpired:
			return Decision{Action: ActionNone, Reason: ReasonPaymentExpired}
		default:
			return Decision{Action: ActionNone, Reason: ReasonAwaitingPayment}
		}
	}

	if p.IsGuest() {
		return Decision{Action: ActionNone, Reason: ReasonAwaitingLink}
	}

	src := s.SourceSubscription
	if src == nil {
		if s.ActiveSubscription != nil {
			return Decision{Action: ActionNone, Reason: ReasonActiveSubscriptionExists}
		}
		return Decision{Action: ActionCreateSubscription}
	}

	// A canceled record must never re-grant access.
	if !src.IsAuthorized() {
		return Decision{Action: ActionNone, Reason: ReasonComplete}
	}
	if s.Entitlement == nil || s.Entitlement.NeedsGrant(src.ID()) {
		return Decision{Action: ActionGrantEntitlement}
	}
	return Decision{Action: ActionNone, Reason: ReasonComplete}
}

// Readiness is the read-time activation check. Each flag is derived from
// stored state only.
type Readiness struct {
	PaymentApproved     bool
	SubscriptionCreated bool
	ProfileActivated    bool
	Ready               bool
}

// Assess computes readiness for s. A source subscription that has since
// been canceled still counts as activated, so once a payment reads ready it
// never reads not ready again.
func Assess(s Snapshot) Readiness {
	r := Readiness{
		PaymentApproved:     s.Payment.IsPaid(),
		SubscriptionCreated: s.SourceSubscription != nil,
	}
	switch {
	case s.SourceSubscription != nil && !s.SourceSubscription.IsAuthorized():
		r.ProfileActivated = true
	case s.Entitlement != nil && s.Entitlement.IsPremiumActive():
		r.ProfileActivated = true
	}
	r.Ready = r.PaymentApproved && r.SubscriptionCreated && r.ProfileActivated
	return r
}
