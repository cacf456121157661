package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	processUC usecases.ProcessWebhookExecutor
	logger    logger.Interface
}

func NewWebhookHandler(processUC usecases.ProcessWebhookExecutor, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		processUC: processUC,
		logger:    logger,
	}
}

// @Summary		Gateway payment notification
// @Description	Receives PIX gateway notifications. The claimed status is ignored; the payment is re-read from the gateway.
// @Description	Non-2xx responses ask the gateway to redeliver.
// @Tags			webhooks
// @Accept			json
// @Produce		json
// @Param			X-Signature		header		string											false	"ts=<unix>,v1=<hex hmac>"
// @Param			X-Request-Id	header		string											false	"Delivery id, part of the signed manifest"
// @Param			data.id			query		string											false	"Payment id when the body has none"
// @Success		200				{object}	utils.APIResponse{data=dto.WebhookResultDTO}	"Handled, duplicate or ignored"
// @Failure		400				{object}	utils.APIResponse								"Malformed payload"
// @Failure		401				{object}	utils.APIResponse								"Bad signature"
// @Failure		500				{object}	utils.APIResponse								"Store failure"
// @Failure		503				{object}	utils.APIResponse								"Gateway unavailable"
// @Router			/api/webhooks/payments [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "unreadable body")
		return
	}

	queryID := c.Query("data.id")
	if queryID == "" {
		queryID = c.Query("id")
	}

	result, err := h.processUC.Execute(c.Request.Context(), usecases.ProcessWebhookCommand{
		Body:            body,
		SignatureHeader: c.GetHeader(constants.HeaderSignature),
		RequestID:       c.GetHeader(constants.HeaderXRequestID),
		QueryDataID:     queryID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
