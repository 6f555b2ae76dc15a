package domain

import "errors"

var (
	// ErrNotFound indicates a lookup targeted an identifier with no record.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates a registration targeted an email address
	// already held by a persisted user.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidInput indicates a registration payload failed validation
	// before any persistence was attempted.
	ErrInvalidInput = errors.New("invalid registration input")
)
