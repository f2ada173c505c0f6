// Package ratelimit implements the fixed-window submission limiter that guards
// the contact endpoint, along with best-effort statistics about its decisions.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultMax is the number of submissions a client may make per window.
	DefaultMax = 5
	// DefaultWindow is the length of a rate limit window.
	DefaultWindow = 60 * time.Second

	unknownKey = "unknown"
)

// Entry tracks the submissions seen for one client in its current window.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Limiter counts submissions per client key within a fixed window.
type Limiter struct {
	mu     sync.Mutex
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithStore replaces the default in-memory entry store.
func WithStore(store Store) Option {
	return func(l *Limiter) {
		if store != nil {
			l.store = store
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLimiter constructs a limiter that allows up to max submissions per window
// for each key. Non-positive arguments fall back to DefaultMax and DefaultWindow.
func NewLimiter(max int, window time.Duration, opts ...Option) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		store:  NewMemoryStore(),
		max:    max,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a submission for key and reports whether it is within the limit.
// The first call in a window opens a fresh entry; later calls increment the
// count and are rejected once it exceeds the maximum. The count keeps growing
// past the threshold until the window resets.
func (l *Limiter) Allow(key string) bool {
	if key == "" {
		key = unknownKey
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.store.Get(key)
	if !ok || now.After(entry.ResetAt) {
		l.store.Set(key, Entry{Count: 1, ResetAt: now.Add(l.window)})
		return true
	}

	entry.Count++
	l.store.Set(key, entry)
	return entry.Count <= l.max
}

// Max returns the number of submissions allowed per window.
func (l *Limiter) Max() int { return l.max }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }
