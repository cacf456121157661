package subscription

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrActiveSubscriptionExists is returned when inserting an authorized
	// record for an owner who already holds one.
	ErrActiveSubscriptionExists = errors.New("owner already has an authorized subscription")

	ErrInvalidTransition = errors.New("invalid subscription status transition")
)
