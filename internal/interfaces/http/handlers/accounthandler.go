package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	entitlementUsecases "github.com/fabioff30/corretor-ia-v0-sub002/internal/application/entitlement/usecases"
	subscriptionUsecases "github.com/fabioff30/corretor-ia-v0-sub002/internal/application/subscription/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/http/middleware"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// AccountHandler serves the caller's own plan state.
type AccountHandler struct {
	entitlementUC entitlementUsecases.GetEntitlementExecutor
	cancelUC      subscriptionUsecases.CancelSubscriptionExecutor
	logger        logger.Interface
}

func NewAccountHandler(
	entitlementUC entitlementUsecases.GetEntitlementExecutor,
	cancelUC subscriptionUsecases.CancelSubscriptionExecutor,
	logger logger.Interface,
) *AccountHandler {
	return &AccountHandler{
		entitlementUC: entitlementUC,
		cancelUC:      cancelUC,
		logger:        logger,
	}
}

// @Summary		Current entitlement
// @Description	Plan tier and subscription status of the caller. Callers who never bought get free/inactive.
// @Tags			account
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.EntitlementDTO}	"Entitlement"
// @Failure		401	{object}	utils.APIResponse							"Not authenticated"
// @Router			/api/me/entitlement [get]
func (h *AccountHandler) GetEntitlement(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.entitlementUC.Execute(c.Request.Context(), *identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// @Summary		Cancel subscription
// @Description	Cancels the caller's authorized subscription and revokes premium access.
// @Tags			account
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.CancelSubscriptionResultDTO}	"Canceled"
// @Failure		401	{object}	utils.APIResponse										"Not authenticated"
// @Failure		404	{object}	utils.APIResponse										"No active subscription"
// @Failure		409	{object}	utils.APIResponse										"Changed concurrently"
// @Router			/api/subscriptions/current/cancel [post]
func (h *AccountHandler) CancelSubscription(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), subscriptionUsecases.CancelSubscriptionCommand{
		Identity: *identity,
	})
	if err != nil {
		if errors.IsConflictError(err) {
			h.logger.Infow("cancel lost to a concurrent request", "owner_id", *identity)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription canceled", result)
}
