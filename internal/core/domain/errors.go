package domain

import "errors"

// Sentinel errors for the settlement engine. Callers branch on these
// with errors.Is; storage and engine code wraps them with fmt.Errorf
// to add context without losing the kind.
var (
	// ErrNotFound: account or pending request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRecipient: the counterparty has the wrong role for the
	// operation (send-money needs a user, cash-in/out need an agent).
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidCredential: the supplied PIN does not match the stored hash.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInsufficientFunds: the adjustment would drive a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadySettled: a pending request was approved before.
	ErrAlreadySettled = errors.New("request already settled")

	// ErrConflict: a store-level race was lost.
	ErrConflict = errors.New("conflict")

	// ErrInconsistent: a multi-leg operation applied its first leg but a
	// later step failed. Nothing is rolled back; the error must reach an
	// operator for reconciliation.
	ErrInconsistent = errors.New("inconsistent state")

	// ErrInvalidAmount: amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")
)
