package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mkline/userreg/internal/domain"
	"github.com/mkline/userreg/internal/mailer"
	"github.com/mkline/userreg/internal/store"
)

// AccountService orchestrates user registration against its two collaborators:
// a user store and a welcome-notification sender. Both are supplied already
// constructed; the service never builds, replaces, or disposes of them and
// performs no recovery of its own — collaborator failures surface to the
// caller unchanged.
//
// Registration is strictly sequential within one call: the email existence
// check completes before persistence begins, and persistence completes before
// the welcome notification is dispatched. A notification failure after a
// successful persist is surfaced but not compensated; the record stays.
type AccountService struct {
	store  store.UserStore
	mailer mailer.Sender
	nowFn  func() time.Time
}

// NewAccountService constructs an AccountService from its collaborators.
func NewAccountService(userStore store.UserStore, sender mailer.Sender) *AccountService {
	return &AccountService{
		store:  userStore,
		mailer: sender,
		nowFn:  time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AccountService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// RegisterUser validates the input, rejects duplicate emails, persists the
// user, and dispatches a welcome notification to the new address.
func (s *AccountService) RegisterUser(ctx context.Context, input RegistrationInput) (domain.User, error) {
	user, err := s.buildUser(input)
	if err != nil {
		return domain.User{}, err
	}

	exists, err := s.store.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email %s: %w", user.Email, err)
	}
	if exists {
		return domain.User{}, domain.ErrDuplicateEmail
	}

	if err := s.store.AddUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	if err := s.mailer.SendWelcome(ctx, user.Email); err != nil {
		// The record is already durable; the send failure is the caller's
		// to handle.
		return domain.User{}, err
	}

	return user, nil
}

// GetUser returns the user with the given identifier, propagating the store's
// domain.ErrNotFound unchanged.
func (s *AccountService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.store.FindUserByID(ctx, id)
}

func (s *AccountService) buildUser(input RegistrationInput) (domain.User, error) {
	if input.ID == "" {
		return domain.User{}, fmt.Errorf("%w: user ID is required", domain.ErrInvalidInput)
	}
	email := normalizeEmail(input.Email)
	if !plausibleEmail(email) {
		return domain.User{}, fmt.Errorf("%w: email %q is not a valid address", domain.ErrInvalidInput, input.Email)
	}

	createdAt := s.nowFn().UTC()
	if input.CreatedAt != nil {
		createdAt = input.CreatedAt.UTC()
	}

	return domain.User{
		ID:        input.ID,
		FullName:  sanitizeString(input.FullName),
		Email:     email,
		Phone:     normalizePhone(input.Phone),
		CreatedAt: createdAt,
	}, nil
}
