package permission

import (
	"fmt"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/authorization"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

const (
	ResourcePayment = "payment"

	ActionReconcile = "reconcile"
	ActionRead      = "read"
)

// InitPaymentPermissions seeds the operator policies. AddPolicy is a no-op
// for rows that already exist, so this runs on every boot.
func InitPaymentPermissions(e *Enforcer, log logger.Interface) error {
	policies := [][]string{
		{authorization.RoleAdmin.String(), ResourcePayment, ActionReconcile},
		{authorization.RoleAdmin.String(), ResourcePayment, ActionRead},
	}

	for _, policy := range policies {
		if err := e.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			log.Errorw("failed to add payment permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	log.Infow("payment permissions initialized")
	return nil
}
