package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/northsummit/contact/internal/config"
	"github.com/northsummit/contact/internal/contact"
	"github.com/northsummit/contact/internal/handlers"
	"github.com/northsummit/contact/internal/mailer"
	"github.com/northsummit/contact/internal/ratelimit"
)

const (
	statsDialTimeout = time.Second
	statsIOTimeout   = 200 * time.Millisecond
)

// components holds the wired handler dependencies plus the concrete pieces
// serve needs to manage directly.
type components struct {
	deps       handlers.Dependencies
	store      *ratelimit.MemoryStore
	memStats   *ratelimit.MemoryStatsStore
	dispatcher *contact.Dispatcher
	cleanup    func() error
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, cfg config.Config) (components, error) {
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window, ratelimit.WithStore(store))

	comps := components{
		store:   store,
		cleanup: func() error { return nil },
	}

	var stats handlers.DecisionRecorder
	if cfg.Stats.RedisURL != "" {
		redisStats, err := newRedisStats(ctx, cfg.Stats)
		if err != nil {
			return components{}, err
		}
		stats = redisStats
		comps.cleanup = redisStats.Close
	} else {
		comps.memStats = ratelimit.NewMemoryStatsStore(ratelimit.WithTrackKeys(cfg.Stats.TrackKeys))
		stats = comps.memStats
	}

	sender := mailer.NewResendClient(mailer.ResendConfig{
		APIKey:       cfg.Mail.APIKey,
		Endpoint:     cfg.Mail.Endpoint,
		Timeout:      cfg.Mail.Timeout,
		MaxPerSecond: cfg.Mail.MaxPerSecond,
	})
	comps.dispatcher = contact.NewDispatcher(contact.DispatchConfig{
		APIKey:    cfg.Mail.APIKey,
		To:        cfg.Mail.To,
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
		Timeout:   cfg.Mail.Timeout,
	}, sender)

	comps.deps = handlers.Dependencies{
		Limiter:    limiter,
		Stats:      stats,
		Dispatcher: comps.dispatcher,
	}
	return comps, nil
}

func newRedisStats(ctx context.Context, cfg config.StatsConfig) (*ratelimit.RedisStatsStore, error) {
	opts, err := redisStatsOptions(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	store := ratelimit.NewRedisStatsStore(redis.NewClient(opts),
		ratelimit.WithStatsPrefix(cfg.Prefix),
		ratelimit.WithStatsTrackKeys(cfg.TrackKeys),
		ratelimit.WithStatsTTL(cfg.TTL),
	)
	if err := store.Ping(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("connect stats redis: %w", err), store.Close())
	}
	return store, nil
}

// redisStatsOptions parses url and tightens the client for best-effort
// counters: short timeouts and no retries on the request path.
func redisStatsOptions(url string) (*redis.Options, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse stats redis url: %w", err)
	}
	opts.DialTimeout = statsDialTimeout
	opts.ReadTimeout = statsIOTimeout
	opts.WriteTimeout = statsIOTimeout
	opts.MaxRetries = -1
	return opts, nil
}
