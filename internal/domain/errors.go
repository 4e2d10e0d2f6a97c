package domain

import "errors"

// Domain errors returned by account and ledger operations. None of them is
// fatal: callers report them and carry on.
var (
	// ErrInvalidAmount is returned when a deposit or withdrawal amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrAccountLocked is returned when a balance-mutating operation targets a locked account.
	ErrAccountLocked = errors.New("account is locked")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when no account carries the requested number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoMatch is returned when a name search finds nothing.
	ErrNoMatch = errors.New("no account matches this name")

	// ErrPersistence is returned when account records cannot be written to or read from a destination.
	ErrPersistence = errors.New("persistence failure")

	// ErrMalformedRecord is returned when a summary line does not parse.
	ErrMalformedRecord = errors.New("malformed account record")
)
