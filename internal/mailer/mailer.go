package mailer

import (
	"context"
	"errors"
	"time"
)

// Sender is the notification contract required by the account service. The
// service only ever invokes SendWelcome and never depends on a concrete
// variant.
type Sender interface {
	// SendWelcome attempts to deliver a welcome notification to the given
	// address. A nil return means the dispatch succeeded from the caller's
	// point of view.
	SendWelcome(ctx context.Context, recipient string) error
}

// Options configures the API-backed sender.
type Options struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	Timeout     time.Duration
}

// ErrMissingBaseURL indicates the provider base URL is not configured.
var ErrMissingBaseURL = errors.New("mailer base URL is required")
