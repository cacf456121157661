package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/errors"
)

type pixRequest struct {
	ContactEmail string `json:"contact_email" validate:"required,email"`
	PlanKind     string `json:"plan_kind" validate:"required,oneof=monthly annual bundle"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     pixRequest
		wantErr string
	}{
		{"valid", pixRequest{ContactEmail: "ana@example.com", PlanKind: "monthly"}, ""},
		{"bad email", pixRequest{ContactEmail: "ana", PlanKind: "annual"}, "contact_email must be a valid email address"},
		{"unknown plan", pixRequest{ContactEmail: "ana@example.com", PlanKind: "weekly"}, "plan_kind must be one of [monthly annual bundle]"},
		{"missing plan", pixRequest{ContactEmail: "ana@example.com"}, "plan_kind is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, errors.GetAppError(err).Details, tt.wantErr)
		})
	}
}

func TestMaskAndNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskEmail("ana@example.com"))
	assert.Equal(t, "a***@example.com", MaskEmail("a@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	assert.Error(t, ValidateID("  "))
}
