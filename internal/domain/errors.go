package domain

import "errors"

var (
	// ErrUserNotFound is returned when an operation names a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the caller's role may not perform a mutation.
	ErrForbidden = errors.New("admin role required")
	// ErrInvalidInput marks a record that violates a field constraint.
	ErrInvalidInput = errors.New("invalid input")
)
