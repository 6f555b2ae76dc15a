package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkline/userreg/internal/domain"
	"github.com/mkline/userreg/internal/mailer"
	"github.com/mkline/userreg/internal/store"
)

// failingStore wraps the in-memory store to fail a chosen operation.
type failingStore struct {
	*store.MemoryStore
	addErr    error
	existsErr error
}

func (f *failingStore) AddUser(ctx context.Context, user domain.User) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.MemoryStore.AddUser(ctx, user)
}

func (f *failingStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryStore.ExistsByEmail(ctx, email)
}

func newService() (*AccountService, *store.MemoryStore, *mailer.MemorySender) {
	users := store.NewMemoryStore()
	sender := mailer.NewMemorySender()
	return NewAccountService(users, sender), users, sender
}

func TestAccountService_RegisterUserPersistsAndNotifies(t *testing.T) {
	svc, users, sender := newService()

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	registered, err := svc.RegisterUser(context.Background(), RegistrationInput{
		ID:       "someId",
		FullName: "  Jane   Doe ",
		Email:    " Example@Domain.com ",
		Phone:    "+1 (555) 123-4567",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if registered.FullName != "Jane Doe" {
		t.Errorf("full name not sanitized: %q", registered.FullName)
	}
	if registered.Email != "example@domain.com" {
		t.Errorf("email not normalized: %q", registered.Email)
	}
	if registered.Phone != "+15551234567" {
		t.Errorf("phone not normalized: %q", registered.Phone)
	}
	if !registered.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt %v, got %v", now, registered.CreatedAt)
	}

	found, err := svc.GetUser(context.Background(), "someId")
	if err != nil {
		t.Fatalf("lookup after registration failed: %v", err)
	}
	if found != registered {
		t.Errorf("lookup mismatch: want %+v got %+v", registered, found)
	}

	if !sender.WasSent("example@domain.com") {
		t.Errorf("expected welcome notification for example@domain.com, sent: %v", sender.Sent())
	}
	if users.Len() != 1 {
		t.Errorf("expected 1 persisted record, got %d", users.Len())
	}
}

func TestAccountService_DuplicateEmailRejectedWithoutSideEffects(t *testing.T) {
	svc, users, sender := newService()

	seed := RegistrationInput{ID: "USR-1", FullName: "John Doe", Email: "john.doe@live.com"}
	if _, err := svc.RegisterUser(context.Background(), seed); err != nil {
		t.Fatalf("seeding registration failed: %v", err)
	}
	sender.Reset()

	_, err := svc.RegisterUser(context.Background(), RegistrationInput{
		ID:       "USR-2",
		FullName: "Impostor",
		Email:    "John.Doe@live.com",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if users.Len() != 1 {
		t.Errorf("expected record count to stay at 1, got %d", users.Len())
	}
	if len(sender.Sent()) != 0 {
		t.Errorf("expected no notification for rejected registration, sent: %v", sender.Sent())
	}
}

func TestAccountService_RepeatedDuplicatesStayAtOneRecord(t *testing.T) {
	svc, users, _ := newService()

	input := RegistrationInput{ID: "USR-1", FullName: "John Doe", Email: "john.doe@live.com"}
	if _, err := svc.RegisterUser(context.Background(), input); err != nil {
		t.Fatalf("seeding registration failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err := svc.RegisterUser(context.Background(), RegistrationInput{
			ID:    "USR-other",
			Email: "john.doe@live.com",
		})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("attempt %d: expected ErrDuplicateEmail, got %v", i, err)
		}
	}

	if users.Len() != 1 {
		t.Errorf("expected record count to stay at 1, got %d", users.Len())
	}
}

func TestAccountService_LookupReflectsDirectPersistence(t *testing.T) {
	svc, users, _ := newService()

	seeded := domain.User{
		ID:        "USR-9",
		FullName:  "Maria Silva",
		Email:     "maria@example.com",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := users.AddUser(context.Background(), seeded); err != nil {
		t.Fatalf("direct persistence failed: %v", err)
	}

	found, err := svc.GetUser(context.Background(), "USR-9")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found != seeded {
		t.Errorf("lookup mismatch: want %+v got %+v", seeded, found)
	}
}

func TestAccountService_LookupUnknownIDFails(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.GetUser(context.Background(), "never-registered")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountService_InvalidInputRejectedBeforePersistence(t *testing.T) {
	svc, users, sender := newService()

	cases := []struct {
		name  string
		input RegistrationInput
	}{
		{"missing id", RegistrationInput{Email: "valid@example.com"}},
		{"missing email", RegistrationInput{ID: "USR-1"}},
		{"malformed email", RegistrationInput{ID: "USR-1", Email: "not-an-address"}},
		{"dotless domain", RegistrationInput{ID: "USR-1", Email: "user@localhost"}},
	}

	for _, tc := range cases {
		_, err := svc.RegisterUser(context.Background(), tc.input)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	if users.Len() != 0 {
		t.Errorf("expected no persisted records, got %d", users.Len())
	}
	if len(sender.Sent()) != 0 {
		t.Errorf("expected no notifications, sent: %v", sender.Sent())
	}
}

func TestAccountService_StoreFailureSurfacesAndSkipsNotification(t *testing.T) {
	storeErr := errors.New("disk full")
	users := &failingStore{MemoryStore: store.NewMemoryStore(), addErr: storeErr}
	sender := mailer.NewMemorySender()
	svc := NewAccountService(users, sender)

	_, err := svc.RegisterUser(context.Background(), RegistrationInput{
		ID:    "USR-1",
		Email: "jane@example.com",
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
	if len(sender.Sent()) != 0 {
		t.Errorf("expected no notification after failed persistence, sent: %v", sender.Sent())
	}
}

func TestAccountService_ExistenceCheckFailureSurfaces(t *testing.T) {
	checkErr := errors.New("connection reset")
	users := &failingStore{MemoryStore: store.NewMemoryStore(), existsErr: checkErr}
	svc := NewAccountService(users, mailer.NewMemorySender())

	_, err := svc.RegisterUser(context.Background(), RegistrationInput{
		ID:    "USR-1",
		Email: "jane@example.com",
	})
	if !errors.Is(err, checkErr) {
		t.Fatalf("expected existence-check error to surface, got %v", err)
	}
	if users.Len() != 0 {
		t.Errorf("expected no persisted records, got %d", users.Len())
	}
}

func TestAccountService_NotificationFailureSurfacesButRecordStays(t *testing.T) {
	sendErr := errors.New("smtp unreachable")
	users := store.NewMemoryStore()
	sender := mailer.NewMemorySender().WithError(sendErr)
	svc := NewAccountService(users, sender)

	_, err := svc.RegisterUser(context.Background(), RegistrationInput{
		ID:    "USR-1",
		Email: "jane@example.com",
	})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected send error to surface, got %v", err)
	}

	// No compensating transaction: the record remains persisted.
	if users.Len() != 1 {
		t.Errorf("expected record to remain persisted, got %d records", users.Len())
	}
}
