package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/authorization"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", "corretoria", 15)

	token, err := svc.Generate("user_1", "ana@example.com", authorization.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.Role.IsAdmin())
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", "corretoria", 15)

	sign := func(secret string, method jwt.SigningMethod, claims jwt.Claims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	valid := func(issuer string, exp time.Time) *Claims {
		return &Claims{
			UserID: "user_1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
	}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign("other", jwt.SigningMethodHS256, valid("corretoria", future))},
		{"wrong issuer", sign("test-secret", jwt.SigningMethodHS256, valid("elsewhere", future))},
		{"expired", sign("test-secret", jwt.SigningMethodHS256, valid("corretoria", time.Now().Add(-time.Minute)))},
		{"other hmac alg", sign("test-secret", jwt.SigningMethodHS512, valid("corretoria", future))},
		{"no subject", sign("test-secret", jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "corretoria", ExpiresAt: jwt.NewNumericDate(future)}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestJWTService_Verify_SubjectFallbackAndUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", "", 15)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user_9", claims.UserID)
	assert.Equal(t, authorization.RoleUser, claims.Role)
}
