// Package ratelimit keeps token buckets per key and provides an HTTP
// middleware that rejects clients exceeding their bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store holds one token bucket per key, dropping buckets left idle.
type Store struct {
	mu           sync.Mutex
	entries      map[string]*storeEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type storeEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTTL sets how long an unused bucket is kept.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval; zero disables the janitor.
func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

// NewStore creates a store whose buckets refill at rps tokens per second up
// to burst. rps <= 0 means unlimited.
func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	if burst < 1 {
		burst = 1
	}
	s := &Store{
		entries:      make(map[string]*storeEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	if rps <= 0 {
		s.rps = rate.Inf
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RPS returns the refill rate.
func (s *Store) RPS() float64 { return float64(s.rps) }

// Burst returns the bucket capacity.
func (s *Store) Burst() int { return s.burst }

// Get returns the bucket for key, creating it on first use.
func (s *Store) Get(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &storeEntry{lim: lim, lastSeen: now}
	return lim
}

// Len returns the number of live buckets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup drops buckets idle for longer than the idle TTL.
func (s *Store) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is done.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}
	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
