package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultRequestTimeout = 10 * time.Second

// APISender delivers welcome notifications through a transactional-email
// provider's HTTPS API.
type APISender struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

type messagePayload struct {
	MessageID string `json:"messageId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NewAPISender constructs an APISender from the provided options.
func NewAPISender(opts Options) (*APISender, error) {
	if opts.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &APISender{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		from:    opts.FromAddress,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *APISender) SendWelcome(ctx context.Context, recipient string) error {
	payload := messagePayload{
		MessageID: uuid.New().String(),
		From:      s.from,
		To:        recipient,
		Subject:   "Welcome!",
		Body:      "Your account has been created.",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send welcome to %s: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider rejected message for %s: status %d: %s",
			recipient, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
