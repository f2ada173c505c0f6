package handlers

import (
	"context"

	"github.com/northsummit/contact/internal/contact"
	"github.com/northsummit/contact/internal/ratelimit"
)

// ContactDispatcher delivers validated enquiries.
type ContactDispatcher interface {
	CheckConfig() error
	Dispatch(ctx context.Context, s contact.Submission) error
}

// DecisionRecorder stores rate limit decisions for later inspection.
type DecisionRecorder interface {
	Record(ctx context.Context, ev ratelimit.StatsEvent) error
}
