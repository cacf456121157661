// Package testutil provides in-memory repositories for application tests.
// Every conditional write is applied under one mutex with the same
// precondition the SQL repositories use, so concurrent tests exercise the
// real first-writer-wins semantics.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/entitlement"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment"
	paymentvo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/subscription"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/webhook"
)

var (
	_ payment.PaymentRepository           = (*MockPaymentRepository)(nil)
	_ subscription.SubscriptionRepository = (*MockSubscriptionRepository)(nil)
	_ entitlement.EntitlementRepository   = (*MockEntitlementRepository)(nil)
	_ webhook.EventRepository             = (*MockWebhookEventRepository)(nil)
)

// MockPaymentRepository is an in-memory payment.PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]*payment.Payment
	subs     *MockSubscriptionRepository

	getError    error
	updateError error
}

// NewMockPaymentRepository creates an empty store. subs backs
// ListPaidWithoutSubscription and may be nil.
func NewMockPaymentRepository(subs *MockSubscriptionRepository) *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*payment.Payment), subs: subs}
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID()] = p.Clone()
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	return p.Clone(), nil
}

func (m *MockPaymentRepository) TransitionToPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return false, m.updateError
	}
	p, ok := m.payments[id]
	if !ok {
		return false, nil
	}
	return p.MarkAsPaid(paidAt), nil
}

func (m *MockPaymentRepository) TransitionToExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return false, m.updateError
	}
	p, ok := m.payments[id]
	if !ok {
		return false, nil
	}
	return p.MarkAsExpired(at) == nil, nil
}

func (m *MockPaymentRepository) BindGuestOwner(ctx context.Context, id, ownerID string, linkedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return false, m.updateError
	}
	p, ok := m.payments[id]
	if !ok {
		return false, nil
	}
	return p.BindOwner(ownerID, linkedAt) == nil, nil
}

func (m *MockPaymentRepository) FindLatestPaidGuestByEmail(ctx context.Context, contactEmail string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	var latest *payment.Payment
	for _, p := range m.payments {
		if !p.IsGuest() || p.Status() != paymentvo.PaymentStatusPaid || p.ContactEmail() != contactEmail {
			continue
		}
		if latest == nil || p.PaidAt().After(*latest.PaidAt()) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Clone(), nil
}

func (m *MockPaymentRepository) ListOverduePending(ctx context.Context, now time.Time, limit int) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*payment.Payment
	for _, p := range m.payments {
		if p.IsOverdue(now) {
			out = append(out, p.Clone())
		}
	}
	return limitSorted(out, limit), nil
}

func (m *MockPaymentRepository) ListPaidWithoutSubscription(ctx context.Context, limit int) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*payment.Payment
	for _, p := range m.payments {
		if !p.IsPaid() || p.IsGuest() {
			continue
		}
		if m.subs != nil && m.subs.hasSource(p.ID()) {
			continue
		}
		out = append(out, p.Clone())
	}
	return limitSorted(out, limit), nil
}

func (m *MockPaymentRepository) SetGetError(err error) {
	m.mu.Lock()
	m.getError = err
	m.mu.Unlock()
}

func (m *MockPaymentRepository) SetUpdateError(err error) {
	m.mu.Lock()
	m.updateError = err
	m.mu.Unlock()
}

// Count returns the number of stored payments.
func (m *MockPaymentRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func limitSorted(in []*payment.Payment, limit int) []*payment.Payment {
	sort.Slice(in, func(i, j int) bool { return in[i].ID() < in[j].ID() })
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

// MockSubscriptionRepository enforces the same two unique keys as the
// subscriptions table: source payment id and the active owner slot.
type MockSubscriptionRepository struct {
	mu       sync.Mutex
	subs     map[string]*subscription.Subscription
	bySource map[string]string

	createError error
	inserts     int
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subs:     make(map[string]*subscription.Subscription),
		bySource: make(map[string]string),
	}
}

func (m *MockSubscriptionRepository) CreateIfAbsent(ctx context.Context, sub *subscription.Subscription) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createError != nil {
		return false, m.createError
	}
	if _, exists := m.bySource[sub.SourcePaymentID()]; exists {
		return false, nil
	}
	if key := sub.ActiveOwnerKey(); key != nil {
		for _, existing := range m.subs {
			if k := existing.ActiveOwnerKey(); k != nil && *k == *key {
				return false, subscription.ErrActiveSubscriptionExists
			}
		}
	}

	m.subs[sub.ID()] = sub.Clone()
	m.bySource[sub.SourcePaymentID()] = sub.ID()
	m.inserts++
	return true, nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return s.Clone(), nil
}

func (m *MockSubscriptionRepository) GetBySourcePaymentID(ctx context.Context, paymentID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.bySource[paymentID]
	if !ok {
		return nil, nil
	}
	return m.subs[id].Clone(), nil
}

func (m *MockSubscriptionRepository) GetAuthorizedByOwner(ctx context.Context, ownerID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.subs {
		if s.OwnerID() == ownerID && s.IsAuthorized() {
			return s.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) TransitionToCanceled(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[id]
	if !ok {
		return false, nil
	}
	return s.Cancel(at) == nil, nil
}

func (m *MockSubscriptionRepository) SetCreateError(err error) {
	m.mu.Lock()
	m.createError = err
	m.mu.Unlock()
}

// Inserts counts successful inserts.
func (m *MockSubscriptionRepository) Inserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

// ListByOwner returns every record for ownerID, oldest first.
func (m *MockSubscriptionRepository) ListByOwner(ownerID string) []*subscription.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*subscription.Subscription
	for _, s := range m.subs {
		if s.OwnerID() == ownerID {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

func (m *MockSubscriptionRepository) isAuthorizedFor(id, ownerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	return ok && s.OwnerID() == ownerID && s.IsAuthorized()
}

func (m *MockSubscriptionRepository) hasSource(paymentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bySource[paymentID]
	return ok
}

// MockEntitlementRepository is an in-memory entitlement.EntitlementRepository.
type MockEntitlementRepository struct {
	mu    sync.Mutex
	rows  map[string]*entitlement.Entitlement
	subs  *MockSubscriptionRepository
	grant error
	calls int
}

// NewMockEntitlementRepository creates an empty store. subs backs the
// authorized-subscription precondition of UpsertGrant; with nil every grant
// is applied.
func NewMockEntitlementRepository(subs *MockSubscriptionRepository) *MockEntitlementRepository {
	return &MockEntitlementRepository{rows: make(map[string]*entitlement.Entitlement), subs: subs}
}

func (m *MockEntitlementRepository) GetByOwner(ctx context.Context, ownerID string) (*entitlement.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.rows[ownerID]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

func (m *MockEntitlementRepository) UpsertGrant(ctx context.Context, ownerID, subscriptionID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.grant != nil {
		return false, m.grant
	}
	if m.subs != nil && !m.subs.isAuthorizedFor(subscriptionID, ownerID) {
		return false, nil
	}
	e, ok := m.rows[ownerID]
	if !ok {
		var err error
		if e, err = entitlement.NewFreeEntitlement(ownerID, at); err != nil {
			return false, err
		}
		m.rows[ownerID] = e
	}
	e.Grant(subscriptionID, at)
	return true, nil
}

func (m *MockEntitlementRepository) Revoke(ctx context.Context, ownerID, subscriptionID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.rows[ownerID]
	if !ok {
		return false, nil
	}
	return e.Revoke(subscriptionID, at), nil
}

// Put seeds a row, e.g. a manually assigned admin.
func (m *MockEntitlementRepository) Put(e *entitlement.Entitlement) {
	m.mu.Lock()
	m.rows[e.OwnerID()] = e.Clone()
	m.mu.Unlock()
}

func (m *MockEntitlementRepository) SetGrantError(err error) {
	m.mu.Lock()
	m.grant = err
	m.mu.Unlock()
}

// GrantCalls counts UpsertGrant invocations.
func (m *MockEntitlementRepository) GrantCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockWebhookEventRepository is an in-memory webhook.EventRepository.
type MockWebhookEventRepository struct {
	mu     sync.Mutex
	events map[string]*webhook.Event
	byID   map[uint]string
	nextID uint

	createError error
}

func NewMockWebhookEventRepository() *MockWebhookEventRepository {
	return &MockWebhookEventRepository{
		events: make(map[string]*webhook.Event),
		byID:   make(map[uint]string),
	}
}

func (m *MockWebhookEventRepository) CreateIfNotExists(ctx context.Context, ev *webhook.Event) (bool, *webhook.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createError != nil {
		return false, nil, m.createError
	}
	key := ev.Provider() + "|" + ev.EventID()
	if stored, ok := m.events[key]; ok {
		return false, stored, nil
	}

	m.nextID++
	stored := webhook.ReconstructEvent(webhook.EventReconstructParams{
		ID:             m.nextID,
		Provider:       ev.Provider(),
		EventID:        ev.EventID(),
		EventType:      ev.EventType(),
		PaymentID:      ev.PaymentID(),
		Payload:        ev.Payload(),
		SignatureValid: ev.SignatureValid(),
		ReceivedAt:     ev.ReceivedAt(),
	})
	m.events[key] = stored
	m.byID[stored.ID()] = key
	return true, stored, nil
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, id uint, at time.Time, outcome webhook.Outcome, processingError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byID[id]
	if !ok {
		return nil
	}
	old := m.events[key]
	m.events[key] = webhook.ReconstructEvent(webhook.EventReconstructParams{
		ID:              old.ID(),
		Provider:        old.Provider(),
		EventID:         old.EventID(),
		EventType:       old.EventType(),
		PaymentID:       old.PaymentID(),
		Payload:         old.Payload(),
		SignatureValid:  old.SignatureValid(),
		Attempts:        old.Attempts() + 1,
		ProcessedAt:     &at,
		Outcome:         outcome,
		ProcessingError: processingError,
		ReceivedAt:      old.ReceivedAt(),
	})
	return nil
}

func (m *MockWebhookEventRepository) SetCreateError(err error) {
	m.mu.Lock()
	m.createError = err
	m.mu.Unlock()
}

// Get returns the stored receipt for provider and event id.
func (m *MockWebhookEventRepository) Get(provider, eventID string) *webhook.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[provider+"|"+eventID]
}
