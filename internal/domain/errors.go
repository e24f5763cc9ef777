package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransactionType rejects type values outside the closed set.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidAmount rejects amounts below 1.
	ErrInvalidAmount = errors.New("amount must be at least 1")

	// ErrAccountNotFound is returned by direct account lookups.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownAccount is returned when a write references an email with
	// no matching account. A client error, not a system fault.
	ErrUnknownAccount = errors.New("unknown account")
)

// UnknownAccountError wraps ErrUnknownAccount with the side of a transfer
// that referenced the missing account ("from" or "to"), or "userEmail"
// for single-transaction writes.
func UnknownAccountError(field, email string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownAccount, field, email)
}
