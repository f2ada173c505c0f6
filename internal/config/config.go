// Package config loads runtime settings from the environment, optionally layered
// over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration for the contact service.
type Config struct {
	AppPort   int
	LogLevel  string
	Mail      MailConfig
	RateLimit RateLimitConfig
	Stats     StatsConfig
}

// MailConfig describes the outbound email provider and addresses.
type MailConfig struct {
	APIKey       string
	Endpoint     string
	To           string
	FromEmail    string
	FromName     string
	Timeout      time.Duration
	MaxPerSecond float64
}

// RateLimitConfig controls the per-client submission limiter.
type RateLimitConfig struct {
	Max           int
	Window        time.Duration
	SweepInterval time.Duration
}

// StatsConfig controls where limiter decisions are counted. An empty RedisURL
// keeps the counters in memory.
type StatsConfig struct {
	RedisURL  string
	Prefix    string
	TrackKeys bool
	// TTL expires the per-minute and per-key hashes.
	TTL time.Duration
}

// rawConfig mirrors the optional YAML file.
type rawConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Mail     struct {
		APIKey       string  `yaml:"api_key"`
		Endpoint     string  `yaml:"endpoint"`
		To           string  `yaml:"to"`
		FromEmail    string  `yaml:"from_email"`
		FromName     string  `yaml:"from_name"`
		Timeout      string  `yaml:"timeout"`
		MaxPerSecond float64 `yaml:"max_per_second"`
	} `yaml:"mail"`
	RateLimit struct {
		Max           int    `yaml:"max"`
		Window        string `yaml:"window"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"rate_limit"`
	Stats struct {
		RedisURL  string `yaml:"redis_url"`
		Prefix    string `yaml:"prefix"`
		TrackKeys bool   `yaml:"track_keys"`
		TTL       string `yaml:"ttl"`
	} `yaml:"stats"`
}

// Load reads configuration. When CONTACT_CONFIG_PATH names a YAML file its
// values (with ${VAR} expansion) replace the built-in defaults; environment
// variables override both. Missing mail credentials are not an error here.
func Load() (Config, error) {
	var raw rawConfig
	if path := strings.TrimSpace(os.Getenv("CONTACT_CONFIG_PATH")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	mailTimeout, err := parseDuration("mail.timeout", raw.Mail.Timeout, 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	window, err := parseDuration("rate_limit.window", raw.RateLimit.Window, 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	sweep, err := parseDuration("rate_limit.sweep_interval", raw.RateLimit.SweepInterval, 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	statsTTL, err := parseDuration("stats.ttl", raw.Stats.TTL, 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppPort:  getInt("CONTACT_PORT", firstPositive(raw.Port, 8080)),
		LogLevel: getString("CONTACT_LOG_LEVEL", firstNonEmpty(raw.LogLevel, "info")),
		Mail: MailConfig{
			APIKey:       getString("RESEND_API_KEY", raw.Mail.APIKey),
			Endpoint:     getString("RESEND_ENDPOINT", firstNonEmpty(raw.Mail.Endpoint, "https://api.resend.com/emails")),
			To:           getString("CONTACT_TO_EMAIL", raw.Mail.To),
			FromEmail:    getString("CONTACT_FROM_EMAIL", firstNonEmpty(raw.Mail.FromEmail, "onboarding@resend.dev")),
			FromName:     getString("CONTACT_FROM_NAME", firstNonEmpty(raw.Mail.FromName, "NorthSummit")),
			Timeout:      getDuration("RESEND_TIMEOUT", mailTimeout),
			MaxPerSecond: getFloat("RESEND_MAX_RPS", firstPositiveFloat(raw.Mail.MaxPerSecond, 2)),
		},
		RateLimit: RateLimitConfig{
			Max:           getInt("CONTACT_RATE_LIMIT_MAX", firstPositive(raw.RateLimit.Max, 5)),
			Window:        getDuration("CONTACT_RATE_LIMIT_WINDOW", window),
			SweepInterval: getDuration("CONTACT_RATE_LIMIT_SWEEP", sweep),
		},
		Stats: StatsConfig{
			RedisURL:  getString("CONTACT_STATS_REDIS_URL", raw.Stats.RedisURL),
			Prefix:    getString("CONTACT_STATS_PREFIX", firstNonEmpty(raw.Stats.Prefix, "contact:ratelimit")),
			TrackKeys: getBool("CONTACT_STATS_TRACK_KEYS", raw.Stats.TrackKeys),
			TTL:       getDuration("CONTACT_STATS_TTL", statsTTL),
		},
	}

	if cfg.RateLimit.Max <= 0 {
		return Config{}, fmt.Errorf("rate limit max must be > 0, got %d", cfg.RateLimit.Max)
	}
	if cfg.RateLimit.Window <= 0 {
		return Config{}, fmt.Errorf("rate limit window must be > 0, got %s", cfg.RateLimit.Window)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
