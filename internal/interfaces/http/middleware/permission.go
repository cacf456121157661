package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// PermissionEnforcer answers casbin-style (subject, resource, action) checks.
type PermissionEnforcer interface {
	Enforce(subject, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PermissionEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PermissionEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission must run after RequireAuth. The user id is checked
// first so per-user grants work; the token role is the fallback subject.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(constants.ContextKeyUserID)
		if userID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		subjects := []string{userID}
		if role := c.GetString(constants.ContextKeyUserRole); role != "" {
			subjects = append(subjects, role)
		}

		for _, subject := range subjects {
			allowed, err := m.enforcer.Enforce(subject, resource, action)
			if err != nil {
				m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", resource, "action", action)
				utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
				c.Abort()
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		m.logger.Warnw("permission denied", "user_id", userID, "resource", resource, "action", action)
		utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}
