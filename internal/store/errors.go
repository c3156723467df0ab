package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. For progress records this is a valid state, not a failure: an
	// item with no record has never been reviewed.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrConstraintViolation is returned when a write would persist an
	// entity that violates a domain invariant (negative interval, ease
	// factor below the floor). The scheduler never produces such records, so
	// seeing this error indicates a bug upstream of the store.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrUnavailable is returned when the underlying persistence cannot be
	// reached. It is the only retryable store error: recomputation is
	// deterministic given the same prior state and timestamp.
	ErrUnavailable = errors.New("store unavailable")

	// Entity-specific "not found" errors

	// ErrVocabularyNotFound indicates the requested catalog item does not exist.
	ErrVocabularyNotFound = fmt.Errorf("%w: vocabulary item", ErrNotFound)

	// ErrProgressNotFound indicates the item has no progress record yet.
	ErrProgressNotFound = fmt.Errorf("%w: progress record", ErrNotFound)

	// ErrSessionNotFound indicates the requested study session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: study session", ErrNotFound)
)

// IsNotFound checks if the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether the caller may retry the operation with the
// same inputs.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Error is a store error carrying the entity and operation that failed.
type Error struct {
	Entity    string // e.g. "progress", "vocabulary"
	Operation string // e.g. "upsert", "list_due"
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s operation on %s failed: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a store Error wrapping err.
func NewError(entity, operation string, err error) *Error {
	return &Error{Entity: entity, Operation: operation, Err: err}
}
