package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/northsummit/contact/internal/contact"
	"github.com/northsummit/contact/internal/logging"
	"github.com/northsummit/contact/internal/mailer"
	"github.com/northsummit/contact/internal/ratelimit"
)

const maxContactBody = 64 << 10

// statsRecordTimeout caps how long a decision write may hold up the request.
var statsRecordTimeout = 250 * time.Millisecond

// Client-facing messages. Details of server-side failures stay in the logs.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgRateLimited      = "rate_limit"
	msgConfigError      = "Server configuration error"
	msgSendFailed       = "Failed to send email"
	msgInternalError    = "Internal server error"
)

// ContactHandler accepts contact form submissions and forwards them by email.
type ContactHandler struct {
	Limiter    RateLimiter
	Stats      DecisionRecorder
	Dispatcher ContactDispatcher
}

// Submit handles POST /api/contact.
func (h ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondError(ctx, w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	key := clientIP(r)
	allowed := allowRequest(h.Limiter, key)
	h.recordDecision(ctx, r, key, allowed)
	if !allowed {
		logger.Warn("contact submission rate limited", "client", ratelimit.KeyDigest(key))
		respondError(ctx, w, http.StatusTooManyRequests, msgRateLimited)
		return
	}

	logger = logger.With("submission_id", uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	submission := contact.Parse(decodeFields(ctx, w, r))

	if submission.IsSpam() {
		logger.Info("honeypot field filled, dropping submission", "client", ratelimit.KeyDigest(key))
		respondJSON(ctx, w, http.StatusOK, successResponse{Success: true})
		return
	}

	submission, err := contact.Validate(submission)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			logger.Warn("contact submission invalid", "field", verr.Field)
			respondError(ctx, w, http.StatusBadRequest, verr.Message)
			return
		}
		respondError(ctx, w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if h.Dispatcher == nil {
		logger.Error("contact dispatcher unavailable")
		respondError(ctx, w, http.StatusInternalServerError, msgConfigError)
		return
	}
	if err := h.Dispatcher.CheckConfig(); err != nil {
		logger.Error("email service misconfigured", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, msgConfigError)
		return
	}

	if err := h.Dispatcher.Dispatch(ctx, submission); err != nil {
		var delivery *mailer.DeliveryError
		switch {
		case errors.As(err, &delivery):
			logger.Error("email provider rejected enquiry",
				"provider_status", delivery.Status,
				"provider_response", delivery.Body,
			)
			respondError(ctx, w, http.StatusInternalServerError, msgSendFailed)
		case errors.Is(err, mailer.ErrNotConfigured):
			logger.Error("email service misconfigured", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, msgConfigError)
		default:
			logger.Error("contact form error", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, successResponse{Success: true})
}

// decodeFields reads the body as a JSON object. Anything else yields an empty
// mapping so validation reports the first missing field.
func decodeFields(ctx context.Context, w http.ResponseWriter, r *http.Request) map[string]any {
	fields := map[string]any{}
	if r.Body == nil {
		return fields
	}

	body := http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		logging.FromContext(ctx).Warn("contact body is not a json object", "error", err)
		return map[string]any{}
	}
	return fields
}

func (h ContactHandler) recordDecision(ctx context.Context, r *http.Request, key string, allowed bool) {
	if h.Stats == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsRecordTimeout)
	defer cancel()

	err := h.Stats.Record(recordCtx, ratelimit.StatsEvent{
		Key:     key,
		Allowed: allowed,
		Method:  r.Method,
		Path:    r.URL.Path,
		At:      time.Now(),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("record rate limit decision", "error", err)
	}
}
