package service

import "errors"

// Common service errors. The API layer maps each one to a distinct status
// and error code.
var (
	// ErrTaskNotFound means no task with the given ID is assigned to the
	// requesting account. Tasks owned by someone else are reported the same way.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotLinked means the external identity is not bound to any account.
	ErrNotLinked = errors.New("external identity is not linked to an account")

	// ErrExternalIDTaken means the external identity is already bound to a
	// different account.
	ErrExternalIDTaken = errors.New("external identity is linked to another account")

	// ErrEmailTaken means registration used an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials means login failed. Unknown email and wrong
	// password are not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
