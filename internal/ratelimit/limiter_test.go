package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestLimiterAllowsUpToMaxThenRejects(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(5, time.Minute, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		if !limiter.Allow("203.0.113.7") {
			t.Fatalf("expected submission %d to be allowed", i+1)
		}
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("expected 6th submission in window to be rejected")
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("expected every further submission in window to be rejected")
	}
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	limiter := NewLimiter(5, time.Minute, WithClock(clock.Now), WithStore(store))

	for i := 0; i < 6; i++ {
		limiter.Allow("k")
	}
	if limiter.Allow("k") {
		t.Fatal("expected key to be limited")
	}

	// resetAt itself still belongs to the old window
	clock.Advance(time.Minute)
	if limiter.Allow("k") {
		t.Fatal("expected key to stay limited at the exact reset instant")
	}

	clock.Advance(time.Millisecond)
	if !limiter.Allow("k") {
		t.Fatal("expected key to be allowed after the window elapsed")
	}

	entry, ok := store.Get("k")
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if entry.Count != 1 {
		t.Fatalf("expected count reset to 1 got %d", entry.Count)
	}
	if want := clock.Now().Add(time.Minute); !entry.ResetAt.Equal(want) {
		t.Fatalf("expected resetAt %s got %s", want, entry.ResetAt)
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, time.Minute, WithClock(newFakeClock().Now))

	if !limiter.Allow("a") {
		t.Fatal("expected first key allowed")
	}
	if !limiter.Allow("b") {
		t.Fatal("expected second key allowed")
	}
	if limiter.Allow("a") {
		t.Fatal("expected first key limited")
	}
}

func TestLimiterEmptyKeyUsesUnknown(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(1, time.Minute, WithStore(store))

	limiter.Allow("")
	if _, ok := store.Get(unknownKey); !ok {
		t.Fatalf("expected empty key to be recorded as %q", unknownKey)
	}
	if limiter.Allow("unknown") {
		t.Fatal("expected empty key and unknown to share an entry")
	}
}

func TestLimiterDefaults(t *testing.T) {
	limiter := NewLimiter(0, 0)
	if limiter.Max() != DefaultMax {
		t.Fatalf("expected max %d got %d", DefaultMax, limiter.Max())
	}
	if limiter.Window() != DefaultWindow {
		t.Fatalf("expected window %s got %s", DefaultWindow, limiter.Window())
	}
}

func TestLimiterConcurrentCallsDoNotLoseIncrements(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(5, time.Minute, WithStore(store), WithClock(newFakeClock().Now))

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 5 {
		t.Fatalf("expected exactly 5 allowed got %d", got)
	}
	entry, _ := store.Get("shared")
	if entry.Count != 50 {
		t.Fatalf("expected count 50 got %d", entry.Count)
	}
}

func TestMemoryStoreSweepRemovesExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	limiter := NewLimiter(5, time.Minute, WithStore(store), WithClock(clock.Now))

	limiter.Allow("old")
	clock.Advance(45 * time.Second)
	limiter.Allow("fresh")
	clock.Advance(30 * time.Second)

	if removed := store.Sweep(clock.Now()); removed != 1 {
		t.Fatalf("expected 1 entry removed got %d", removed)
	}
	if _, ok := store.Get("old"); ok {
		t.Fatal("expected expired entry to be removed")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatal("expected live entry to remain")
	}
}

func TestMemoryStoreJanitorSweeps(t *testing.T) {
	store := NewMemoryStore()
	store.Set("stale", Entry{Count: 3, ResetAt: time.Now().Add(-time.Minute)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartJanitor(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected janitor to remove stale entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
