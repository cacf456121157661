package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/auth"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier   TokenVerifier
	cookieName string
	logger     logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, cookieName string, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.extractToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present. A bad token
// is treated as anonymous; handlers decide whether that is enough.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := m.extractToken(c); ok {
			if claims, err := m.verifier.Verify(token); err == nil {
				setIdentity(c, claims)
			} else {
				m.logger.Debugw("ignoring invalid optional token", "error", err)
			}
		}
		c.Next()
	}
}

// extractToken prefers the session cookie, then a Bearer header.
func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if m.cookieName != "" {
		if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
			return token, true
		}
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(constants.ContextKeyUserID, claims.UserID)
	c.Set(constants.ContextKeyUserRole, claims.Role.String())
	if claims.Email != "" {
		c.Set(constants.ContextKeyUserEmail, claims.Email)
	}
}

// IdentityFromContext returns the authenticated user id, or nil for guests.
func IdentityFromContext(c *gin.Context) *string {
	id := c.GetString(constants.ContextKeyUserID)
	if id == "" {
		return nil
	}
	return &id
}

// EmailFromContext returns the email claim, empty when absent.
func EmailFromContext(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserEmail)
}
