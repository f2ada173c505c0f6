package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store persists rate limit entries by client key.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, entry Entry)
}

// MemoryStore is a process-local Store. Expired entries stay in memory until
// Sweep removes them.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for key, if any.
func (s *MemoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Set stores entry under key.
func (s *MemoryStore) Set(key string, entry Entry) {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// Len reports how many entries are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep deletes every entry whose window ended before now and returns how many
// were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := s.Sweep(now); n > 0 {
					slog.Debug("swept expired rate limit entries", "removed", n, "remaining", s.Len())
				}
			}
		}
	}()
}
