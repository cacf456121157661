package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrIdentityRequired means the payment has an owner and the caller is anonymous.
	ErrIdentityRequired = errors.New("payment belongs to an account; authentication required")

	// ErrNotOwner means the caller is authenticated as someone other than the owner.
	ErrNotOwner = errors.New("payment belongs to another account")

	ErrAlreadyOwned = errors.New("payment is already bound to an owner")
	ErrNotPaid      = errors.New("payment is not paid")
	ErrNotPending   = errors.New("payment is not pending")
)
