package service

import "time"

// RegistrationInput is the inbound payload accepted by the account service.
// It carries exactly the fields needed to construct a user; callers produce
// it once (e.g. from an HTTP body) and the service does not retain it.
type RegistrationInput struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
