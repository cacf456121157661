package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

type AdminPaymentHandler struct {
	reconcileUC usecases.ReconcilePaymentExecutor
	logger      logger.Interface
}

func NewAdminPaymentHandler(reconcileUC usecases.ReconcilePaymentExecutor, logger logger.Interface) *AdminPaymentHandler {
	return &AdminPaymentHandler{
		reconcileUC: reconcileUC,
		logger:      logger,
	}
}

// @Summary		Reconcile payment activation
// @Description	Re-runs activation for one payment, e.g. after a support ticket.
// @Tags			admin
// @Produce		json
// @Security		Bearer
// @Param			id	path		string										true	"Payment ID"
// @Success		200	{object}	utils.APIResponse{data=dto.ActivationDTO}	"Activation flags"
// @Failure		403	{object}	utils.APIResponse							"Missing payment:reconcile"
// @Failure		404	{object}	utils.APIResponse							"Unknown payment"
// @Router			/api/admin/payments/{id}/reconcile [post]
func (h *AdminPaymentHandler) Reconcile(c *gin.Context) {
	paymentID := c.Param("id")

	result, err := h.reconcileUC.ReconcileOne(c.Request.Context(), paymentID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("payment reconciled by operator",
		"payment_id", paymentID,
		"operator_id", c.GetString(constants.ContextKeyUserID),
		"ready", result.Ready,
	)
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
