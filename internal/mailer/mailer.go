package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flop2top/sharma-and-associates/internal/config"
)

// Address is a name/email pair on the email API wire.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Message is a single transactional email.
type Message struct {
	From    Address   `json:"from"`
	To      []Address `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// Client talks to a Resend-compatible transactional email HTTP API.
type Client struct {
	log     *logrus.Entry
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Client from mailer configuration.
func NewClient(log *logrus.Logger, cfg config.MailerConfig) *Client {
	return &Client{
		log:     log.WithField("component", "mailer"),
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// Send posts the message to the email API. A non-2xx status is an error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warnf("err closing email response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email API error: %d", resp.StatusCode)
	}
	return nil
}
