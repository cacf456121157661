package paymentgateway

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MockGateway is an in-memory gateway for local development and tests.
// Payments start pending; SetStatus moves them and FailNext simulates outages.
type MockGateway struct {
	mu       sync.Mutex
	statuses map[string]*StatusResult
	seq      atomic.Int64
	failures atomic.Int64
	calls    atomic.Int64
}

func NewMockGateway() *MockGateway {
	return &MockGateway{statuses: make(map[string]*StatusResult)}
}

func (m *MockGateway) CreatePixPayment(ctx context.Context, req CreatePixPaymentRequest) (*CreatePixPaymentResponse, error) {
	if err := m.consumeFailure(); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("mock_%d", m.seq.Add(1))
	m.mu.Lock()
	m.statuses[id] = &StatusResult{PaymentID: id, Status: StatusPending}
	m.mu.Unlock()

	return &CreatePixPaymentResponse{
		PaymentID: id,
		QRCode:    fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865802BR", req.Reference),
		ExpiresAt: req.ExpiresAt,
	}, nil
}

func (m *MockGateway) FetchPaymentStatus(ctx context.Context, paymentID string) (*StatusResult, error) {
	m.calls.Add(1)
	if err := m.consumeFailure(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.statuses[paymentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	out := *res
	return &out, nil
}

// SetStatus registers or moves a payment at the gateway.
func (m *MockGateway) SetStatus(paymentID string, status Status, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := &StatusResult{PaymentID: paymentID, Status: status}
	if status.IsApproved() {
		res.ApprovedAt = &at
	}
	m.statuses[paymentID] = res
}

// FailNext makes the next n calls fail with ErrGatewayUnavailable.
func (m *MockGateway) FailNext(n int) {
	m.failures.Store(int64(n))
}

// StatusCalls counts FetchPaymentStatus invocations.
func (m *MockGateway) StatusCalls() int {
	return int(m.calls.Load())
}

func (m *MockGateway) consumeFailure() error {
	for {
		left := m.failures.Load()
		if left <= 0 {
			return nil
		}
		if m.failures.CompareAndSwap(left, left-1) {
			return fmt.Errorf("%w: simulated outage", ErrGatewayUnavailable)
		}
	}
}
