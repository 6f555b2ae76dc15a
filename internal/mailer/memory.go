package mailer

import (
	"context"
	"sync"
)

// MemorySender is an in-memory Sender recording every successful dispatch.
// The log only grows until Reset; production logic never reads it.
type MemorySender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

// NewMemorySender instantiates an empty in-memory sender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// WithError configures the sender to fail subsequent dispatches with err.
func (m *MemorySender) WithError(err error) *MemorySender {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MemorySender) SendWelcome(_ context.Context, recipient string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient)
	return nil
}

// WasSent reports whether a notification was dispatched to the address.
func (m *MemorySender) WasSent(recipient string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addr := range m.sent {
		if addr == recipient {
			return true
		}
	}
	return false
}

// Sent returns a snapshot of recipient addresses in dispatch order.
func (m *MemorySender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

// Reset discards the dispatch log.
func (m *MemorySender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
