package store

import (
	"context"

	"github.com/mkline/userreg/internal/domain"
)

// UserStore is the persistence contract required by the account service.
// Implementations are interchangeable; the service only ever invokes these
// operations and never depends on a concrete variant.
type UserStore interface {
	// AddUser persists a new user record. The record becomes visible to
	// subsequent lookups by identifier and by email. Stores that enforce
	// email uniqueness return domain.ErrDuplicateEmail on violation.
	AddUser(ctx context.Context, user domain.User) error

	// FindUserByID returns the record with the given identifier, or
	// domain.ErrNotFound when no such record exists.
	FindUserByID(ctx context.Context, id string) (domain.User, error)

	// ExistsByEmail reports whether a persisted record holds the exact email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
