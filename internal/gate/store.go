package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key and tier inside fixed-reset windows. Allow
// performs the read-compare-increment sequence atomically per key; callers
// must never be able to exceed the ceiling under concurrent bursts.
type Store interface {
	Allow(ctx context.Context, key string, tier Tier) (Decision, error)
}

type record struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded in-process Store. Counters are per process:
// under a multi-instance deployment each instance enforces its own ceiling.
// Use RedisStore when that matters.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
	limits  map[Tier]Limit
	now     func() time.Time
}

// NewMemoryStore builds an in-process rate-limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]record),
		limits:  Limits,
		now:     time.Now,
	}
}

// Allow checks and increments the counter for key within its tier's window.
// Expired records are reclaimed lazily here and periodically by Sweep.
func (s *MemoryStore) Allow(_ context.Context, key string, tier Tier) (Decision, error) {
	limit := s.limits[tier]
	bucket := string(tier) + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[bucket]
	if !ok || !now.Before(rec.resetAt) {
		rec = record{count: 0, resetAt: now.Add(limit.Window)}
	}
	if rec.count >= limit.Ceiling {
		return Decision{Allowed: false, Remaining: 0, ResetAt: rec.resetAt}, nil
	}
	rec.count++
	s.records[bucket] = rec
	return Decision{Allowed: true, Remaining: limit.Ceiling - rec.count, ResetAt: rec.resetAt}, nil
}

// Sweep deletes all records whose window has elapsed and returns how many
// it removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, rec := range s.records {
		if !now.Before(rec.resetAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled. It
// never panics the process: sweep outcomes are logged and the loop continues.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("rate limit sweeper stopped", "panic", r)
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					logger.Debug("rate limit sweep", "removed", removed)
				}
			}
		}
	}()
}

// size reports the live record count. Test hook.
func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
