package mailer

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySender_RecordsDispatches(t *testing.T) {
	sender := NewMemorySender()

	if err := sender.SendWelcome(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := sender.SendWelcome(context.Background(), "b@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !sender.WasSent("a@example.com") || !sender.WasSent("b@example.com") {
		t.Errorf("expected both recipients recorded, got %v", sender.Sent())
	}
	if sender.WasSent("c@example.com") {
		t.Errorf("unexpected recipient recorded")
	}
	if got := sender.Sent(); len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("unexpected dispatch order: %v", got)
	}
}

func TestMemorySender_InjectedErrorSkipsLog(t *testing.T) {
	sendErr := errors.New("transport down")
	sender := NewMemorySender().WithError(sendErr)

	if err := sender.SendWelcome(context.Background(), "a@example.com"); !errors.Is(err, sendErr) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(sender.Sent()) != 0 {
		t.Errorf("failed dispatch must not be recorded, got %v", sender.Sent())
	}
}

func TestMemorySender_Reset(t *testing.T) {
	sender := NewMemorySender()
	if err := sender.SendWelcome(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sender.Reset()

	if len(sender.Sent()) != 0 {
		t.Errorf("expected empty log after reset, got %v", sender.Sent())
	}
}
