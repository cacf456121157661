package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusIsPaid(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		paid   bool
	}{
		{PaymentStatusPending, false},
		{PaymentStatusPaid, true},
		{PaymentStatusLinked, true},
		{PaymentStatusExpired, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.paid, tt.status.IsPaid())
			assert.True(t, tt.status.IsValid())
		})
	}
	assert.False(t, PaymentStatus("failed").IsValid())
}

func TestPlanKindBillingDays(t *testing.T) {
	assert.Equal(t, 30, PlanKindMonthly.BillingDays())
	assert.Equal(t, 365, PlanKindAnnual.BillingDays())
	assert.Equal(t, 365, PlanKindBundle.BillingDays())

	k, err := ParsePlanKind("annual")
	require.NoError(t, err)
	assert.Equal(t, PlanKindAnnual, k)

	_, err = ParsePlanKind("weekly")
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	m := NewMoney(1990, "")
	assert.Equal(t, "BRL", m.Currency())
	assert.Equal(t, "19.90 BRL", m.String())
	assert.True(t, m.IsPositive())
	assert.False(t, NewMoney(0, "BRL").IsPositive())
}
