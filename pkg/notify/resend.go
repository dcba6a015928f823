package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultResendBaseURL = "https://api.resend.com"

// Email is an outgoing HTML message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendConfig configures the Resend client.
type ResendConfig struct {
	APIKey  string
	BaseURL string
	From    string
	To      string
	Timeout time.Duration
}

// ResendClient sends e-mail through the Resend HTTP API.
type ResendClient struct {
	apiKey  string
	baseURL string
	from    string
	to      string
	http    *http.Client
}

// NewResendClient builds a client. A client without API key or recipient is disabled.
func NewResendClient(cfg ResendConfig) *ResendClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultResendBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ResendClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		from:    cfg.From,
		to:      cfg.To,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether notifications can be delivered.
func (c *ResendClient) Enabled() bool {
	return c != nil && c.apiKey != "" && c.to != ""
}

// Send delivers subject/html to the configured recipient.
func (c *ResendClient) Send(ctx context.Context, subject, html string) error {
	if !c.Enabled() {
		return nil
	}
	body, err := json.Marshal(Email{From: c.from, To: []string{c.to}, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("encode resend email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send resend email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend api status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
