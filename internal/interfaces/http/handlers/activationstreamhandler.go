package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/dto"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/pubsub"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

const streamWriteTimeout = 5 * time.Second

// ActivationWatcher subscribes to activation events of one payment.
type ActivationWatcher interface {
	Watch(paymentID string) (<-chan pubsub.ActivationEvent, func())
}

type StreamConfig struct {
	AllowedOrigins []string
	// RecheckInterval re-verifies without an event, covering lost webhooks.
	RecheckInterval time.Duration
	// MaxDuration closes streams that never become ready.
	MaxDuration time.Duration
}

// ActivationStreamHandler pushes the verify result over a websocket each time
// the payment may have changed, so the checkout page need not poll.
type ActivationStreamHandler struct {
	verifyUC usecases.VerifyActivationExecutor
	watcher  ActivationWatcher
	upgrader websocket.Upgrader
	config   StreamConfig
	logger   logger.Interface
}

func NewActivationStreamHandler(
	verifyUC usecases.VerifyActivationExecutor,
	watcher ActivationWatcher,
	config StreamConfig,
	logger logger.Interface,
) *ActivationStreamHandler {
	if config.RecheckInterval <= 0 {
		config.RecheckInterval = 10 * time.Second
	}
	if config.MaxDuration <= 0 {
		config.MaxDuration = 3 * time.Minute
	}

	h := &ActivationStreamHandler{
		verifyUC: verifyUC,
		watcher:  watcher,
		config:   config,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *ActivationStreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(h.config.AllowedOrigins, origin)
}

// @Summary		Activation stream
// @Description	Websocket. Sends the verify result immediately and again after each activation event; closes once ready or refused.
// @Tags			payments
// @Security		Bearer
// @Param			paymentId	query		string				true	"Payment ID"
// @Success		101			{object}	dto.ActivationDTO	"Switching protocols; messages are ActivationDTO"
// @Failure		400			{object}	utils.APIResponse	"Missing paymentId"
// @Failure		403			{object}	utils.APIResponse	"Owned by someone else"
// @Failure		404			{object}	utils.APIResponse	"Unknown payment"
// @Router			/api/payments/stream [get]
func (h *ActivationStreamHandler) Stream(c *gin.Context) {
	query := usecases.VerifyActivationQuery{
		PaymentID: c.Query("paymentId"),
		Identity:  middleware.IdentityFromContext(c),
	}

	// authorization and existence errors are reported before upgrading
	first, err := h.verifyUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "payment_id", query.PaymentID, "error", err)
		return
	}
	defer conn.Close()

	if !h.send(conn, first) || streamDone(first) {
		h.closeNormal(conn)
		return
	}

	events, cancelWatch := h.watcher.Watch(query.PaymentID)
	defer cancelWatch()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.config.MaxDuration)
	defer cancel()

	// the client never sends; reading detects it going away
	_ = conn.SetReadDeadline(time.Time{})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	recheck := time.NewTicker(h.config.RecheckInterval)
	defer recheck.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeNormal(conn)
			return
		case <-events:
		case <-recheck.C:
		}

		result, err := h.verifyUC.Execute(ctx, query)
		if err != nil {
			h.logger.Warnw("stream verify failed", "payment_id", query.PaymentID, "error", err)
			continue
		}
		if !h.send(conn, result) {
			return
		}
		if streamDone(result) {
			h.closeNormal(conn)
			return
		}
	}
}

func (h *ActivationStreamHandler) send(conn *websocket.Conn, result *dto.ActivationDTO) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(result); err != nil {
		h.logger.Debugw("stream write failed", "payment_id", result.PaymentID, "error", err)
		return false
	}
	return true
}

// streamDone reports a result the checkout page stops waiting on.
func streamDone(result *dto.ActivationDTO) bool {
	return result.Ready || result.ActiveSubscriptionExists
}

func (h *ActivationStreamHandler) closeNormal(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
