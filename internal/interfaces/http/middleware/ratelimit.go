package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/ratelimit"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

const rateLimitCheckTimeout = 200 * time.Millisecond

// RateLimiter throttles a route group per caller: the user id when
// authenticated, the client IP otherwise. Redis being unavailable lets the
// request through.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, perMinute int, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		config:  ratelimit.RateLimitConfig{RequestsPerMinute: perMinute},
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil || rl.config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:ip:%s", rl.scope, c.ClientIP())
		if id := IdentityFromContext(c); id != nil {
			key = fmt.Sprintf("%s:user:%s", rl.scope, *id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), rateLimitCheckTimeout)
		allowed, err := rl.limiter.Allow(ctx, key, rl.config)
		cancel()
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(60))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
