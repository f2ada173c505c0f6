package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/northsummit/contact/internal/logging"
	"github.com/northsummit/contact/internal/mailer"
)

// Defaults applied by NewDispatcher.
const (
	DefaultFromEmail       = "onboarding@resend.dev"
	DefaultFromName        = "NorthSummit"
	DefaultDispatchTimeout = 10 * time.Second
)

// DispatchConfig holds the addresses and credentials used to deliver enquiries.
type DispatchConfig struct {
	APIKey    string
	To        string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// Dispatcher composes enquiry emails and hands them to a mailer.Sender.
type Dispatcher struct {
	cfg    DispatchConfig
	sender mailer.Sender
}

// NewDispatcher returns a Dispatcher that delivers through sender.
func NewDispatcher(cfg DispatchConfig, sender mailer.Sender) *Dispatcher {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.To = strings.TrimSpace(cfg.To)
	if strings.TrimSpace(cfg.FromEmail) == "" {
		cfg.FromEmail = DefaultFromEmail
	}
	if strings.TrimSpace(cfg.FromName) == "" {
		cfg.FromName = DefaultFromName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{cfg: cfg, sender: sender}
}

// From returns the formatted sender address.
func (d *Dispatcher) From() string {
	return fmt.Sprintf("%s <%s>", d.cfg.FromName, d.cfg.FromEmail)
}

// CheckConfig reports which required setting is missing, wrapping
// mailer.ErrNotConfigured. The detail is meant for server logs only.
func (d *Dispatcher) CheckConfig() error {
	var missing []string
	if d.cfg.APIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	if d.cfg.To == "" {
		missing = append(missing, "CONTACT_TO_EMAIL")
	}
	if d.sender == nil {
		missing = append(missing, "sender")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", mailer.ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Dispatch validates s, composes the enquiry and sends it once. The send is
// detached from ctx cancellation and bounded by the configured timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, s Submission) error {
	if err := d.CheckConfig(); err != nil {
		return err
	}

	valid, err := Validate(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.Timeout)
	defer cancel()

	ctx, span := logging.StartSpan(ctx, "contact.dispatch")
	defer span.End()

	msg := Compose(valid, d.From(), d.cfg.To)
	if err := d.sender.Send(ctx, msg); err != nil {
		span.Fail(err)
		return fmt.Errorf("dispatch %s enquiry: %w", strings.ToLower(valid.Intent), err)
	}

	logging.FromContext(ctx).Info("enquiry dispatched", "intent", valid.Intent)
	return nil
}
