package activation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/paymentgateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	paymentvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	subvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/goroutine"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/id"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

const (
	defaultGatewayTimeout    = 5 * time.Second
	defaultActivationTimeout = 15 * time.Second
	// maxPasses bounds the load-decide-apply loop. A clean activation needs
	// four writes; the rest absorbs owner-slot conflicts.
	maxPasses = 10
)

// Effect records a write this caller won.
type Effect string

const (
	EffectPaymentMarkedPaid   Effect = "payment_marked_paid"
	EffectSubscriptionCreated Effect = "subscription_created"
	EffectEntitlementGranted  Effect = "entitlement_granted"
)

// Outcome is the result of one activation attempt. Readiness flags come from
// a fresh read taken after the last write, never from the writes themselves.
type Outcome struct {
	PaymentID string
	Readiness

	// AwaitingLink marks a paid guest payment that needs an owner first.
	AwaitingLink bool
	// Refused marks a paid payment whose owner already holds another
	// authorized subscription.
	Refused bool
	// Retry is set when the gateway could not be reached; callers poll again.
	Retry  bool
	Reason Reason

	PaymentStatus      paymentvo.PaymentStatus
	GatewayStatus      paymentgateway.Status
	SubscriptionID     string
	SubscriptionStatus subvo.SubscriptionStatus
	NextPaymentDate    *time.Time
	EntitlementTier    entitlement.PlanTier
	EntitlementStatus  entitlement.SubscriptionStatus

	Effects []Effect
}

// ActivationCompleted is emitted once per payment, by the caller whose
// subscription insert won.
type ActivationCompleted struct {
	PaymentID       string
	OwnerID         string
	ContactEmail    string
	PlanKind        paymentvo.PlanKind
	Amount          paymentvo.Money
	SubscriptionID  string
	NextPaymentDate time.Time
	ActivatedAt     time.Time
}

// Listener reacts to completed activations. Listeners run in their own
// goroutine and cannot affect the activation result.
type Listener interface {
	OnActivated(ctx context.Context, ev ActivationCompleted)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithClock(clock biztime.Clock) Option {
	return func(c *Coordinator) { c.clock = clock }
}

func WithGatewayTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.gatewayTimeout = d
		}
	}
}

func WithActivationTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.activationTimeout = d
		}
	}
}

// WithSubscriptionIDGenerator replaces the short id generator.
func WithSubscriptionIDGenerator(fn func() (string, error)) Option {
	return func(c *Coordinator) { c.newID = fn }
}

func WithListener(l Listener) Option {
	return func(c *Coordinator) { c.listeners = append(c.listeners, l) }
}

// Coordinator applies Decide against the stores. It holds no locks: each
// write is a conditional update or an insert-if-absent, and a caller that
// loses a write re-reads and continues.
type Coordinator struct {
	payments      payment.PaymentRepository
	subscriptions subscription.SubscriptionRepository
	entitlements  entitlement.EntitlementRepository
	gateway       paymentgateway.PaymentGateway
	clock         biztime.Clock
	listeners     []Listener
	logger        logger.Interface

	gatewayTimeout    time.Duration
	activationTimeout time.Duration
	newID             func() (string, error)
}

func NewCoordinator(
	payments payment.PaymentRepository,
	subscriptions subscription.SubscriptionRepository,
	entitlements entitlement.EntitlementRepository,
	gateway paymentgateway.PaymentGateway,
	logger logger.Interface,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		payments:          payments,
		subscriptions:     subscriptions,
		entitlements:      entitlements,
		gateway:           gateway,
		clock:             biztime.SystemClock(),
		logger:            logger,
		gatewayTimeout:    defaultGatewayTimeout,
		activationTimeout: defaultActivationTimeout,
		newID:             id.NewSubscriptionID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddListener registers l after construction. It must be called before the
// coordinator serves traffic.
func (c *Coordinator) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Activate drives paymentID as far towards activation as current state
// allows. "Not approved yet" and an unreachable gateway are reported through
// the Outcome; only store failures and an unknown payment return an error.
func (c *Coordinator) Activate(ctx context.Context, paymentID string) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.activationTimeout)
	defer cancel()

	var (
		gw      *paymentgateway.StatusResult
		effects []Effect
		created *subscription.Subscription
		source  *payment.Payment
		snap    Snapshot
		err     error
	)

	defer func() {
		if created != nil {
			c.notify(ctx, source, created)
		}
	}()

	for pass := 0; pass < maxPasses; pass++ {
		snap, err = c.load(ctx, paymentID, gw)
		if err != nil {
			return nil, err
		}

		d := Decide(snap)
		now := c.clock.Now()

		switch d.Action {
		case ActionNone:
			return c.outcome(snap, d.Reason, false, effects), nil

		case ActionFetchGatewayStatus:
			res, ferr := c.fetchStatus(ctx, paymentID)
			if ferr != nil {
				if errors.Is(ferr, paymentgateway.ErrPaymentNotFound) {
					c.logger.Warnw("payment unknown to gateway", "payment_id", paymentID)
					return c.outcome(snap, ReasonGatewayUnknown, false, effects), nil
				}
				c.logger.Warnw("gateway status fetch failed, activation will be retried",
					"payment_id", paymentID,
					"error", ferr,
				)
				return c.outcome(snap, ReasonGatewayUnavailable, true, effects), nil
			}
			gw = res

		case ActionMarkPaid:
			won, werr := c.payments.TransitionToPaid(ctx, paymentID, now)
			if werr != nil {
				return nil, fmt.Errorf("failed to mark payment as paid: %w", werr)
			}
			if won {
				effects = append(effects, EffectPaymentMarkedPaid)
				c.logger.Infow("payment marked as paid", "payment_id", paymentID)
			}

		case ActionCreateSubscription:
			sub, cerr := c.createSubscription(ctx, snap.Payment, now)
			if errors.Is(cerr, subscription.ErrActiveSubscriptionExists) {
				c.logger.Debugw("owner slot taken concurrently, re-reading",
					"payment_id", paymentID,
					"pass", pass,
				)
				continue
			}
			if cerr != nil {
				return nil, cerr
			}
			if sub != nil {
				created, source = sub, snap.Payment
				effects = append(effects, EffectSubscriptionCreated)
			}

		case ActionGrantEntitlement:
			ownerID := snap.Payment.OwnerIDValue()
			granted, gerr := c.entitlements.UpsertGrant(ctx, ownerID, snap.SourceSubscription.ID(), now)
			if gerr != nil {
				return nil, fmt.Errorf("failed to grant entitlement: %w", gerr)
			}
			if !granted {
				c.logger.Infow("subscription ended before grant, re-reading",
					"payment_id", paymentID,
					"subscription_id", snap.SourceSubscription.ID(),
				)
				continue
			}
			effects = append(effects, EffectEntitlementGranted)
			c.logger.Infow("entitlement granted",
				"payment_id", paymentID,
				"owner_id", ownerID,
				"subscription_id", snap.SourceSubscription.ID(),
			)
		}
	}

	snap, err = c.load(ctx, paymentID, gw)
	if err != nil {
		return nil, err
	}
	c.logger.Warnw("activation did not settle within pass budget", "payment_id", paymentID)
	return c.outcome(snap, ReasonIncomplete, true, nil), nil
}

// Evaluate reports readiness from stored state without calling the gateway
// or writing anything.
func (c *Coordinator) Evaluate(ctx context.Context, paymentID string) (*Outcome, error) {
	snap, err := c.load(ctx, paymentID, nil)
	if err != nil {
		return nil, err
	}
	d := Decide(snap)
	reason := d.Reason
	switch d.Action {
	case ActionFetchGatewayStatus:
		reason = ReasonAwaitingPayment
	case ActionNone:
	default:
		reason = ReasonIncomplete
	}
	return c.outcome(snap, reason, false, nil), nil
}

func (c *Coordinator) load(ctx context.Context, paymentID string, gw *paymentgateway.StatusResult) (Snapshot, error) {
	p, err := c.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("failed to load payment: %w", err)
	}

	snap := Snapshot{Payment: p, Gateway: gw}

	if snap.SourceSubscription, err = c.subscriptions.GetBySourcePaymentID(ctx, paymentID); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load source subscription: %w", err)
	}

	if p.IsGuest() {
		return snap, nil
	}
	ownerID := p.OwnerIDValue()
	if snap.ActiveSubscription, err = c.subscriptions.GetAuthorizedByOwner(ctx, ownerID); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load active subscription: %w", err)
	}
	if snap.Entitlement, err = c.entitlements.GetByOwner(ctx, ownerID); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load entitlement: %w", err)
	}
	return snap, nil
}

func (c *Coordinator) fetchStatus(ctx context.Context, paymentID string) (*paymentgateway.StatusResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.gatewayTimeout)
	defer cancel()
	return c.gateway.FetchPaymentStatus(ctx, paymentID)
}

// createSubscription inserts the authorized record for p. It returns the
// record only when this caller's insert won, and ErrActiveSubscriptionExists
// when the owner's slot was taken concurrently.
func (c *Coordinator) createSubscription(ctx context.Context, p *payment.Payment, now time.Time) (*subscription.Subscription, error) {
	subID, err := c.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription id: %w", err)
	}

	sub, err := subscription.NewAuthorized(subID, subscription.ActivationSource{
		PaymentID: p.ID(),
		OwnerID:   p.OwnerIDValue(),
		PlanKind:  p.PlanKind(),
	}, now)
	if err != nil {
		return nil, err
	}

	created, err := c.subscriptions.CreateIfAbsent(ctx, sub)
	if err != nil {
		if errors.Is(err, subscription.ErrActiveSubscriptionExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if !created {
		return nil, nil
	}

	c.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"payment_id", p.ID(),
		"plan_kind", p.PlanKind(),
		"next_payment_date", sub.NextPaymentDate(),
	)
	return sub, nil
}

func (c *Coordinator) outcome(snap Snapshot, reason Reason, retry bool, effects []Effect) *Outcome {
	p := snap.Payment
	out := &Outcome{
		PaymentID:     p.ID(),
		Readiness:     Assess(snap),
		AwaitingLink:  reason == ReasonAwaitingLink,
		Refused:       reason == ReasonActiveSubscriptionExists,
		Retry:         retry,
		Reason:        reason,
		PaymentStatus: p.Status(),
		Effects:       effects,
	}
	if snap.Gateway != nil {
		out.GatewayStatus = snap.Gateway.Status
	}
	if sub := snap.SourceSubscription; sub != nil {
		next := sub.NextPaymentDate()
		out.SubscriptionID = sub.ID()
		out.SubscriptionStatus = sub.Status()
		out.NextPaymentDate = &next
	}
	if ent := snap.Entitlement; ent != nil {
		out.EntitlementTier = ent.PlanTier()
		out.EntitlementStatus = ent.SubscriptionStatus()
	}
	return out
}

func (c *Coordinator) notify(ctx context.Context, p *payment.Payment, sub *subscription.Subscription) {
	if len(c.listeners) == 0 {
		return
	}
	ev := ActivationCompleted{
		PaymentID:       p.ID(),
		OwnerID:         sub.OwnerID(),
		ContactEmail:    p.ContactEmail(),
		PlanKind:        sub.PlanKind(),
		Amount:          p.Amount(),
		SubscriptionID:  sub.ID(),
		NextPaymentDate: sub.NextPaymentDate(),
		ActivatedAt:     sub.CreatedAt(),
	}
	bg := context.WithoutCancel(ctx)
	for _, l := range c.listeners {
		l := l
		goroutine.SafeGo(c.logger, "activation-listener", func() {
			l.OnActivated(bg, ev)
		})
	}
}
