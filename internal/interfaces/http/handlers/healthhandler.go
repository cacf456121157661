package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// @Summary		Health check
// @Tags			system
// @Produce		json
// @Success		200	{object}	utils.APIResponse	"Healthy"
// @Failure		503	{object}	utils.APIResponse	"Database unreachable"
// @Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	utils.SuccessResponse(c, http.StatusOK, "ok", nil)
}
