package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

type PaymentHandler struct {
	createUC usecases.CreatePixPaymentExecutor
	statusUC usecases.GetPaymentStatusExecutor
	verifyUC usecases.VerifyActivationExecutor
	linkUC   usecases.LinkGuestPaymentsExecutor
	logger   logger.Interface
}

func NewPaymentHandler(
	createUC usecases.CreatePixPaymentExecutor,
	statusUC usecases.GetPaymentStatusExecutor,
	verifyUC usecases.VerifyActivationExecutor,
	linkUC usecases.LinkGuestPaymentsExecutor,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createUC: createUC,
		statusUC: statusUC,
		verifyUC: verifyUC,
		linkUC:   linkUC,
		logger:   logger,
	}
}

type CreatePixPaymentRequest struct {
	PlanKind     string  `json:"planKind" binding:"required" example:"monthly"`
	ContactEmail string  `json:"contactEmail" binding:"required" example:"ana@example.com"`
	PayerName    string  `json:"payerName" example:"Ana Souza"`
	OwnerID      *string `json:"ownerId,omitempty"`
}

type LinkGuestPaymentsRequest struct {
	ContactEmail string `json:"contactEmail" binding:"required" example:"ana@example.com"`
}

// @Summary		Create PIX payment
// @Description	Creates a pending PIX payment and returns its QR code. Guests may pay; a body ownerId must match the session.
// @Tags			payments
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			payment	body		CreatePixPaymentRequest						true	"Payment data"
// @Success		200		{object}	utils.APIResponse{data=dto.PaymentDTO}	"Payment created"
// @Failure		400		{object}	utils.APIResponse							"Invalid request"
// @Failure		401		{object}	utils.APIResponse							"ownerId without a session"
// @Failure		403		{object}	utils.APIResponse							"ownerId of another user"
// @Failure		500		{object}	utils.APIResponse							"Gateway or store failure"
// @Router			/api/payments/pix [post]
func (h *PaymentHandler) CreatePix(c *gin.Context) {
	var req CreatePixPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid create payment request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request", err.Error()))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreatePixPaymentCommand{
		PlanKind:     req.PlanKind,
		ContactEmail: req.ContactEmail,
		PayerName:    req.PayerName,
		OwnerID:      req.OwnerID,
		Identity:     middleware.IdentityFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment created", result)
}

// @Summary		Payment status
// @Description	Read-only snapshot of a payment and its activation. Never contacts the gateway.
// @Tags			payments
// @Produce		json
// @Security		Bearer
// @Param			paymentId	query		string											true	"Payment ID"
// @Success		200			{object}	utils.APIResponse{data=dto.PaymentStatusDTO}	"Snapshot"
// @Failure		400			{object}	utils.APIResponse								"Missing paymentId"
// @Failure		401			{object}	utils.APIResponse								"Owned payment, no session"
// @Failure		403			{object}	utils.APIResponse								"Owned by someone else"
// @Failure		404			{object}	utils.APIResponse								"Unknown payment"
// @Router			/api/payments/status [get]
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	result, err := h.statusUC.Execute(c.Request.Context(), usecases.GetPaymentStatusQuery{
		PaymentID: c.Query("paymentId"),
		Identity:  middleware.IdentityFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// @Summary		Verify activation
// @Description	Polling verifier. Each call re-checks the gateway when needed and completes any missing activation step.
// @Description	Poll while ready is false, waiting retryAfterSeconds between calls.
// @Tags			payments
// @Produce		json
// @Security		Bearer
// @Param			paymentId	query		string										true	"Payment ID"
// @Success		200			{object}	utils.APIResponse{data=dto.ActivationDTO}	"Activation flags"
// @Failure		400			{object}	utils.APIResponse							"Missing paymentId"
// @Failure		401			{object}	utils.APIResponse							"Owned payment, no session"
// @Failure		403			{object}	utils.APIResponse							"Owned by someone else"
// @Failure		404			{object}	utils.APIResponse							"Unknown payment"
// @Failure		429			{object}	utils.APIResponse							"Polling too fast"
// @Failure		500			{object}	utils.APIResponse							"Store failure"
// @Router			/api/payments/verify [get]
func (h *PaymentHandler) Verify(c *gin.Context) {
	result, err := h.verifyUC.Execute(c.Request.Context(), usecases.VerifyActivationQuery{
		PaymentID: c.Query("paymentId"),
		Identity:  middleware.IdentityFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Ready && result.RetryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// @Summary		Link guest payment
// @Description	Attaches the most recent paid guest payment for the email to the caller and activates it.
// @Tags			payments
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			request	body		LinkGuestPaymentsRequest							true	"Contact email used at checkout"
// @Success		200		{object}	utils.APIResponse{data=dto.LinkGuestResultDTO}	"Link result"
// @Failure		400		{object}	utils.APIResponse									"Invalid email"
// @Failure		401		{object}	utils.APIResponse									"Not authenticated"
// @Failure		403		{object}	utils.APIResponse									"Email differs from the session email"
// @Router			/api/payments/link-guest [post]
func (h *PaymentHandler) LinkGuest(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req LinkGuestPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request", err.Error()))
		return
	}

	result, err := h.linkUC.Execute(c.Request.Context(), usecases.LinkGuestPaymentsCommand{
		Identity:     *identity,
		ContactEmail: req.ContactEmail,
		TokenEmail:   middleware.EmailFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
