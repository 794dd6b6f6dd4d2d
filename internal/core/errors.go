package core

import "errors"

// Failure taxonomy. Remote and service layers wrap these so callers can
// branch with errors.Is regardless of where the failure originated.
var (
	// ErrValidation covers missing or invalid required fields. Nothing was
	// written when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers absent entities and ownership violations alike:
	// the remote answers 404 for both so that existence never leaks.
	ErrNotFound = errors.New("not found")

	// ErrBatchFailed means an installment batch failed as a whole; no rows
	// of the group were retained.
	ErrBatchFailed = errors.New("installment batch failed")

	// ErrTransport covers network and server failures. Optimistic local
	// changes are not rolled back automatically; the caller decides.
	ErrTransport = errors.New("transport failure")
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidOwnership = errors.New("invalid ownership scope")
	ErrEmptyDescription = errors.New("empty description")
)
