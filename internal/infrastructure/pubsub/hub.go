package pubsub

import (
	"context"
	"sync"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
)

const watcherBuffer = 4

// ActivationHub fans activation events out to in-process watchers keyed by
// payment id. It is fed by the Redis subscriber, or directly by the
// coordinator when Redis is not configured.
type ActivationHub struct {
	mu       sync.Mutex
	watchers map[string]map[chan ActivationEvent]struct{}
}

func NewActivationHub() *ActivationHub {
	return &ActivationHub{watchers: make(map[string]map[chan ActivationEvent]struct{})}
}

// Watch registers interest in paymentID. The returned cancel must be called
// exactly once; it closes the channel.
func (h *ActivationHub) Watch(paymentID string) (<-chan ActivationEvent, func()) {
	ch := make(chan ActivationEvent, watcherBuffer)

	h.mu.Lock()
	set, ok := h.watchers[paymentID]
	if !ok {
		set = make(map[chan ActivationEvent]struct{})
		h.watchers[paymentID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.watchers[paymentID], ch)
			if len(h.watchers[paymentID]) == 0 {
				delete(h.watchers, paymentID)
			}
			close(ch)
		})
	}
}

// Dispatch delivers event to every watcher of its payment. A watcher whose
// buffer is full misses the event; it only needs one to re-verify.
func (h *ActivationHub) Dispatch(event ActivationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.watchers[event.PaymentID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// OnActivated lets the hub act as a coordinator listener in single-instance
// deployments.
func (h *ActivationHub) OnActivated(_ context.Context, ev activation.ActivationCompleted) {
	h.Dispatch(ActivationEvent{
		PaymentID:       ev.PaymentID,
		OwnerID:         ev.OwnerID,
		SubscriptionID:  ev.SubscriptionID,
		PlanKind:        string(ev.PlanKind),
		NextPaymentDate: ev.NextPaymentDate,
		ActivatedAt:     ev.ActivatedAt,
	})
}

// Watchers reports how many watchers paymentID has.
func (h *ActivationHub) Watchers(paymentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[paymentID])
}
