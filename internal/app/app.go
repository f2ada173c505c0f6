package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/northsummit/contact/internal/config"
	"github.com/northsummit/contact/internal/handlers"
	"github.com/northsummit/contact/internal/httpserver"
	"github.com/northsummit/contact/internal/logging"
	"github.com/northsummit/contact/internal/middleware"
)

// Run bootstraps the contact service.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve or check-config")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "check-config":
		return checkConfig(ctx, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	comps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.cleanup(); err != nil {
			logger.Warn("release dependencies", "error", err)
		}
	}()

	if err := comps.dispatcher.CheckConfig(); err != nil {
		logger.Warn("email delivery not configured, submissions will fail", "error", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	comps.store.StartJanitor(janitorCtx, cfg.RateLimit.SweepInterval)

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, comps.deps)

	handler := middleware.RequestLogger(logger)(mux)

	srv := httpserver.New(cfg.AppPort, handler, httpserver.WithWriteTimeout(cfg.Mail.Timeout+httpserver.DefaultReadHeaderTimeout))

	logger.Info("starting http server",
		"port", cfg.AppPort,
		"rate_limit_max", cfg.RateLimit.Max,
		"rate_limit_window", cfg.RateLimit.Window,
	)

	err = httpserver.Run(ctx, srv, srv.Start, logger)

	if comps.memStats != nil {
		total := comps.memStats.Total()
		logger.Info("rate limit decisions", "allowed", total.Allowed, "denied", total.Denied)
	}
	return err
}

type configReport struct {
	MailConfigured bool   `json:"mail_configured"`
	MailProblem    string `json:"mail_problem,omitempty"`
	From           string `json:"from"`
	RateLimitMax   int    `json:"rate_limit_max"`
	RateLimitWin   string `json:"rate_limit_window"`
	Stats          string `json:"stats"`
}

// checkConfig reports the effective configuration without printing secrets.
func checkConfig(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	comps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = comps.cleanup() }()

	report := configReport{
		MailConfigured: true,
		From:           comps.dispatcher.From(),
		RateLimitMax:   cfg.RateLimit.Max,
		RateLimitWin:   cfg.RateLimit.Window.String(),
		Stats:          "memory",
	}
	if err := comps.dispatcher.CheckConfig(); err != nil {
		report.MailConfigured = false
		report.MailProblem = err.Error()
	}
	if cfg.Stats.RedisURL != "" {
		report.Stats = "redis"
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
