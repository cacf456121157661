package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
)

func TestActivationHub_DeliversOnlyToWatchersOfThePayment(t *testing.T) {
	hub := NewActivationHub()

	mine, cancelMine := hub.Watch("pay_1")
	other, cancelOther := hub.Watch("pay_2")
	defer cancelOther()

	hub.OnActivated(context.Background(), activation.ActivationCompleted{PaymentID: "pay_1", SubscriptionID: "sub_1"})

	select {
	case ev := <-mine:
		assert.Equal(t, "sub_1", ev.SubscriptionID)
	default:
		require.FailNow(t, "watcher of pay_1 got nothing")
	}
	assert.Empty(t, other)

	cancelMine()
	cancelMine()
	_, open := <-mine
	assert.False(t, open)
	assert.Equal(t, 0, hub.Watchers("pay_1"))
	assert.Equal(t, 1, hub.Watchers("pay_2"))
}

func TestActivationHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewActivationHub()
	_, cancel := hub.Watch("pay_1")
	defer cancel()

	for i := 0; i < watcherBuffer*3; i++ {
		hub.Dispatch(ActivationEvent{PaymentID: "pay_1"})
	}
}
