package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestStore_GetSameKeyReturnsSameLimiter(t *testing.T) {
	s := NewStore(10, 1)
	if s.Get("k") != s.Get("k") {
		t.Fatal("expected same limiter for same key")
	}
	if s.Get("k") == s.Get("other") {
		t.Fatal("expected distinct limiters for distinct keys")
	}
}

func TestStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewStore(0.02, 1)
	lim := s.Get("k")
	if !lim.Allow() {
		t.Fatal("expected first Allow to be true")
	}
	if lim.Allow() {
		t.Fatal("expected second immediate Allow to be false (burst=1)")
	}
}

func TestStore_ZeroRPSIsUnlimited(t *testing.T) {
	s := NewStore(0, 0)
	lim := s.Get("k")
	for i := 0; i < 100; i++ {
		if !lim.Allow() {
			t.Fatalf("request %d rejected by an unlimited store", i)
		}
	}
	if s.Burst() != 1 {
		t.Errorf("Burst() = %d, want 1", s.Burst())
	}
	if s.RPS() != float64(rate.Inf) {
		t.Errorf("RPS() = %v, want rate.Inf", s.RPS())
	}
}

func TestStore_RPS(t *testing.T) {
	s := NewStore(2.5, 3)
	if s.RPS() != 2.5 || s.Burst() != 3 {
		t.Errorf("RPS(), Burst() = %v, %d, want 2.5, 3", s.RPS(), s.Burst())
	}
}

func TestStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewStore(10, 1, WithIdleTTL(2*time.Millisecond), WithCleanupEvery(0))
	before := s.Get("k")
	time.Sleep(4 * time.Millisecond)
	s.Cleanup()
	if s.Len() != 0 {
		t.Fatalf("expected no entries after cleanup, got %d", s.Len())
	}
	if before == s.Get("k") {
		t.Fatal("expected limiter to be recreated after cleanup")
	}
}

func TestStore_Janitor(t *testing.T) {
	s := NewStore(10, 1, WithIdleTTL(time.Millisecond), WithCleanupEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Get("k")
	s.StartJanitor(ctx)
	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("janitor did not remove idle entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
