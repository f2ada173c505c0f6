package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected stored logger")
	}
}

func TestStartSpanReusesRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "info"))
	ctx = WithRequestID(ctx, "req-123")

	ctx, span := StartSpan(ctx, "contact.dispatch")
	if TraceIDFromContext(ctx) != "req-123" {
		t.Fatalf("expected trace id to reuse request id got %q", TraceIDFromContext(ctx))
	}
	if SpanIDFromContext(ctx) == "" {
		t.Fatal("expected span id to be set")
	}
	span.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["msg"] != "span completed" || entry["span_name"] != "contact.dispatch" || entry["trace_id"] != "req-123" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestSpanFailLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "info"))

	_, span := StartSpan(ctx, "step")
	span.Fail(errors.New("provider down"))
	span.End()

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, "provider down") {
		t.Fatalf("expected warning with error got %s", out)
	}
}

func TestNilSpanIsSafe(t *testing.T) {
	var span *Span
	span.Fail(errors.New("x"))
	span.End()
}
