package store

import (
	"errors"
	"fmt"
)

// Sentinel errors. Implementations wrap these so callers can match with
// errors.Is regardless of the backend.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity covers rows rejected by the database: failed checks
	// and references to rows that do not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps begin and commit failures.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound is also returned for a task assigned to someone else.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	ErrIdentityLinkNotFound = fmt.Errorf("%w: identity link", ErrNotFound)

	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrExternalIDTaken means the external ID is bound to another account.
	ErrExternalIDTaken = fmt.Errorf("%w: external id", ErrDuplicate)
)

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err wraps ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError adds entity and operation context to a backend failure.
type StoreError struct {
	Entity    string // "task", "task_list", "identity_link", "user"
	Operation string // "create", "get", "complete", "upsert", ...
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
