package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPISender_SendWelcome(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotPayload messagePayload
	)
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer provider.Close()

	sender, err := NewAPISender(Options{
		BaseURL:     provider.URL,
		APIKey:      "secret-key",
		FromAddress: "welcome@example.com",
	})
	if err != nil {
		t.Fatalf("failed to build sender: %v", err)
	}

	if err := sender.SendWelcome(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotPath != "/messages" {
		t.Errorf("expected /messages path, got %s", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("unexpected authorization header: %q", gotAuth)
	}
	if gotPayload.To != "jane@example.com" {
		t.Errorf("expected recipient jane@example.com, got %q", gotPayload.To)
	}
	if gotPayload.From != "welcome@example.com" {
		t.Errorf("expected from welcome@example.com, got %q", gotPayload.From)
	}
	if gotPayload.MessageID == "" {
		t.Errorf("expected a generated message ID")
	}
}

func TestAPISender_ProviderRejectionSurfaces(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid recipient", http.StatusUnprocessableEntity)
	}))
	defer provider.Close()

	sender, err := NewAPISender(Options{BaseURL: provider.URL})
	if err != nil {
		t.Fatalf("failed to build sender: %v", err)
	}

	if err := sender.SendWelcome(context.Background(), "bad@example.com"); err == nil {
		t.Fatal("expected provider rejection to surface, got nil")
	}
}

func TestAPISender_RequiresBaseURL(t *testing.T) {
	if _, err := NewAPISender(Options{}); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
}
