package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/pubsub"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

func startStreamServer(t *testing.T, verify *mockVerify, hub *pubsub.ActivationHub) string {
	h := NewActivationStreamHandler(verify, hub, StreamConfig{
		AllowedOrigins:  []string{"https://app.example"},
		RecheckInterval: time.Hour,
		MaxDuration:     5 * time.Second,
	}, logger.NewNopLogger())

	r := gin.New()
	r.GET("/api/payments/stream", h.Stream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/payments/stream?paymentId=pay_1"
}

func TestActivationStreamHandler_PushesUntilReady(t *testing.T) {
	hub := pubsub.NewActivationHub()
	verify := &mockVerify{results: []*dto.ActivationDTO{
		{PaymentID: "pay_1", RetryAfterSeconds: 3},
		{PaymentID: "pay_1", PaymentApproved: true, ProfileActivated: true, SubscriptionCreated: true, Ready: true},
	}}
	url := startStreamServer(t, verify, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first dto.ActivationDTO
	require.NoError(t, conn.ReadJSON(&first))
	assert.False(t, first.Ready)

	require.Eventually(t, func() bool { return hub.Watchers("pay_1") == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Dispatch(pubsub.ActivationEvent{PaymentID: "pay_1"})

	var second dto.ActivationDTO
	require.NoError(t, conn.ReadJSON(&second))
	assert.True(t, second.Ready)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Eventually(t, func() bool { return hub.Watchers("pay_1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestActivationStreamHandler_AlreadyReadyClosesImmediately(t *testing.T) {
	verify := &mockVerify{results: []*dto.ActivationDTO{{PaymentID: "pay_1", Ready: true}}}
	url := startStreamServer(t, verify, pubsub.NewActivationHub())

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg dto.ActivationDTO
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.Ready)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestActivationStreamHandler_RejectsBeforeUpgrade(t *testing.T) {
	t.Run("authorization errors keep their status", func(t *testing.T) {
		verify := &mockVerify{err: errors.NewForbiddenError("payment belongs to another user")}
		url := startStreamServer(t, verify, pubsub.NewActivationHub())

		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("foreign origin", func(t *testing.T) {
		verify := &mockVerify{results: []*dto.ActivationDTO{{PaymentID: "pay_1"}}}
		url := startStreamServer(t, verify, pubsub.NewActivationHub())

		_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
