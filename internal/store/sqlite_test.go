package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkline/userreg/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}

func TestSQLiteStore_AddThenLookup(t *testing.T) {
	s := newTestSQLiteStore(t)

	user := domain.User{
		ID:        "USR-1",
		FullName:  "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+15551234567",
		CreatedAt: time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC),
	}
	if err := s.AddUser(context.Background(), user); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	exists, err := s.ExistsByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !exists {
		t.Errorf("expected email to exist after add")
	}

	found, err := s.FindUserByID(context.Background(), "USR-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.ID != user.ID || found.FullName != user.FullName || found.Email != user.Email || found.Phone != user.Phone {
		t.Errorf("lookup mismatch: want %+v got %+v", user, found)
	}
	if !found.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("createdAt mismatch: want %v got %v", user.CreatedAt, found.CreatedAt)
	}
}

func TestSQLiteStore_UniqueIndexRejectsDuplicateEmail(t *testing.T) {
	s := newTestSQLiteStore(t)

	first := domain.User{ID: "USR-1", Email: "jane@example.com", CreatedAt: time.Now()}
	if err := s.AddUser(context.Background(), first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The unique index enforces this even without a prior existence check.
	second := domain.User{ID: "USR-2", Email: "jane@example.com", CreatedAt: time.Now()}
	if err := s.AddUser(context.Background(), second); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSQLiteStore_DuplicateIDRejected(t *testing.T) {
	s := newTestSQLiteStore(t)

	first := domain.User{ID: "USR-1", Email: "a@example.com", CreatedAt: time.Now()}
	if err := s.AddUser(context.Background(), first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := domain.User{ID: "USR-1", Email: "b@example.com", CreatedAt: time.Now()}
	err := s.AddUser(context.Background(), second)
	if err == nil {
		t.Fatal("expected primary-key violation, got nil")
	}
	if errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("duplicate ID must not be reported as duplicate email: %v", err)
	}
}

func TestSQLiteStore_UnknownLookupFails(t *testing.T) {
	s := newTestSQLiteStore(t)
	if _, err := s.FindUserByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := newTestSQLiteStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("expected healthy ping, got %v", err)
	}
}
