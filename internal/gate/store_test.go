package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestStore(start time.Time) (*MemoryStore, *time.Time) {
	now := start
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreEnforcesCeiling(t *testing.T) {
	s, _ := newTestStore(time.Now())
	ctx := context.Background()

	limit := Limits[TierStrict]
	for i := 0; i < limit.Ceiling; i++ {
		d, err := s.Allow(ctx, "1.2.3.4", TierStrict)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if d.Remaining != limit.Ceiling-i-1 {
			t.Fatalf("request %d: expected remaining %d got %d", i+1, limit.Ceiling-i-1, d.Remaining)
		}
	}

	for i := 0; i < 3; i++ {
		d, err := s.Allow(ctx, "1.2.3.4", TierStrict)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if d.Allowed {
			t.Fatalf("request over ceiling should be denied")
		}
	}
}

func TestMemoryStoreWindowReset(t *testing.T) {
	start := time.Now()
	s, now := newTestStore(start)
	ctx := context.Background()

	limit := Limits[TierLoose]
	for i := 0; i < limit.Ceiling+5; i++ {
		if _, err := s.Allow(ctx, "key", TierLoose); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}

	// Just past the reset instant the quota is whole again, even after a
	// ceiling breach.
	*now = start.Add(limit.Window + time.Millisecond)
	d, err := s.Allow(ctx, "key", TierLoose)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("request after window reset should be allowed")
	}
	if d.Remaining != limit.Ceiling-1 {
		t.Fatalf("expected full quota minus one, got remaining %d", d.Remaining)
	}
}

func TestMemoryStoreKeysAndTiersIndependent(t *testing.T) {
	s, _ := newTestStore(time.Now())
	ctx := context.Background()

	for i := 0; i < Limits[TierStrict].Ceiling; i++ {
		if _, err := s.Allow(ctx, "a", TierStrict); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}

	if d, _ := s.Allow(ctx, "a", TierStrict); d.Allowed {
		t.Fatalf("key a strict should be exhausted")
	}
	if d, _ := s.Allow(ctx, "b", TierStrict); !d.Allowed {
		t.Fatalf("key b should have its own counter")
	}
	if d, _ := s.Allow(ctx, "a", TierLoose); !d.Allowed {
		t.Fatalf("loose tier must not share the strict counter")
	}
}

func TestMemoryStoreConcurrentBurst(t *testing.T) {
	s, _ := newTestStore(time.Now())
	ctx := context.Background()

	const workers = 50
	var allowed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			d, err := s.Allow(ctx, "burst", TierStrict)
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != int64(Limits[TierStrict].Ceiling) {
		t.Fatalf("expected exactly %d allowed under concurrency, got %d", Limits[TierStrict].Ceiling, got)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	start := time.Now()
	s, now := newTestStore(start)
	ctx := context.Background()

	s.Allow(ctx, "a", TierLoose)
	s.Allow(ctx, "b", TierStrict)
	if s.size() != 2 {
		t.Fatalf("expected 2 records, got %d", s.size())
	}

	// Only the loose record has expired.
	*now = start.Add(Limits[TierLoose].Window + time.Second)
	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("expected 1 record swept, got %d", removed)
	}
	if s.size() != 1 {
		t.Fatalf("expected 1 record left, got %d", s.size())
	}

	*now = start.Add(Limits[TierStrict].Window + time.Second)
	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("expected strict record swept, got %d", removed)
	}
}
