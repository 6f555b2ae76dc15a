package domain

import "time"

// User aggregates the canonical account record. Instances are treated as
// immutable once constructed; the store never mutates a persisted record.
type User struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}
