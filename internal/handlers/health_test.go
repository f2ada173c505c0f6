package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type configChecker struct{ err error }

func (c configChecker) CheckConfig() error { return c.err }

func TestHealthHandlerHandle(t *testing.T) {
	handler := HealthHandler{}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type got %s", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec = httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed got %d", rec.Code)
	}
}

func TestHealthHandlerReportsMailConfig(t *testing.T) {
	tests := []struct {
		name string
		mail configChecker
		want string
	}{
		{name: "configured", mail: configChecker{}, want: "configured"},
		{name: "unconfigured", mail: configChecker{err: errors.New("missing RESEND_API_KEY")}, want: "unconfigured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler{Mail: tt.mail}.Handle(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			var resp healthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != "ok" || resp.Mail != tt.want {
				t.Fatalf("unexpected health response: %+v", resp)
			}
		})
	}
}
