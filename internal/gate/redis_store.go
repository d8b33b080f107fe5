package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:v1:"

// RedisStore is a Redis-backed Store. Counters are shared across instances,
// which is the whole point: it replaces MemoryStore under multi-instance
// deployment without touching gate logic. Keys carry a TTL equal to the
// tier window, so Redis reclaims expired records itself and no sweeper is
// needed.
type RedisStore struct {
	client *redis.Client
	limits map[Tier]Limit
}

// NewRedisStore builds a Redis-backed rate-limit store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, limits: Limits}
}

// Allow increments the window counter via INCR and sets the expiry on first
// hit. INCR is atomic server-side, so concurrent bursts cannot exceed the
// ceiling.
func (s *RedisStore) Allow(ctx context.Context, key string, tier Tier) (Decision, error) {
	limit := s.limits[tier]
	bucket := redisKeyPrefix + string(tier) + ":" + key

	count, err := s.client.Incr(ctx, bucket).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, bucket, limit.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, bucket).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// Expiry lost (e.g. the key was created without one); restore it so
		// the counter cannot live forever.
		ttl = limit.Window
		if err := s.client.PExpire(ctx, bucket, limit.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(limit.Ceiling) {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Decision{Allowed: true, Remaining: limit.Ceiling - int(count), ResetAt: resetAt}, nil
}
