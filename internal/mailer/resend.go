// Package mailer delivers transactional email through the Resend HTTP API.
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

	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the Resend send-email endpoint.
	DefaultEndpoint = "https://api.resend.com/emails"
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
)

// Message is a composed outbound email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendConfig configures a ResendClient.
type ResendConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	// MaxPerSecond throttles outbound calls; zero disables the throttle.
	MaxPerSecond float64
}

// ResendClient sends messages through the Resend API.
type ResendClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewResendClient builds a client from cfg, applying defaults for empty fields.
func NewResendClient(cfg ResendConfig) *ResendClient {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &ResendClient{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
	if cfg.MaxPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxPerSecond), 1)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *ResendClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ReplyTo string `json:"reply_to,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts msg to the Resend API. It makes exactly one attempt.
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if !c.Configured() || strings.TrimSpace(msg.To) == "" {
		return ErrNotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Err: fmt.Errorf("wait for send slot: %w", err)}
		}
	}

	payload, err := json.Marshal(sendRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeliveryError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
