package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmptyName       = errors.New("account name must not be empty")
	ErrInvalidKind     = errors.New("account kind must be customer or supplier")

	// Transaction errors
	ErrTxNotFound        = errors.New("transaction not found")
	ErrNoAccountID       = errors.New("transaction must reference an account")
	ErrInvalidTxType     = errors.New("transaction type must be debt or payment")
	ErrNonPositiveAmount = errors.New("transaction amount must be positive")
	ErrZeroDate          = errors.New("transaction date must be set")
	ErrAccountMismatch   = errors.New("transaction belongs to a different account")

	// Settings errors
	ErrNegativeTerms = errors.New("payment terms days must not be negative")
)
