package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

func setupEnforcer(t *testing.T) *Enforcer {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, InitPaymentPermissions(e, logger.NewNopLogger()))
	return e
}

func TestEnforcer_PaymentPolicies(t *testing.T) {
	e := setupEnforcer(t)
	require.NoError(t, e.AddRoleForUser("ops_1", "admin"))

	tests := []struct {
		subject string
		action  string
		want    bool
	}{
		{"admin", ActionReconcile, true},
		{"ops_1", ActionReconcile, true},
		{"user", ActionReconcile, false},
		{"user_42", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.subject+"/"+tt.action, func(t *testing.T) {
			allowed, err := e.Enforce(tt.subject, ResourcePayment, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}

	roles, err := e.GetRolesForUser("ops_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
}

func TestInitPaymentPermissions_Idempotent(t *testing.T) {
	e := setupEnforcer(t)
	require.NoError(t, InitPaymentPermissions(e, logger.NewNopLogger()))

	allowed, err := e.Enforce("admin", ResourcePayment, ActionReconcile)
	require.NoError(t, err)
	assert.True(t, allowed)
}
