package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// RedisLedger persists emission times in Redis so cooldowns survive process
// restarts. Values are RFC 3339 timestamps under "cooldown:<key>", expiring
// after the configured retention so stale keys clean themselves up.
//
// Per-key serialization is in-process only: the service runs a single
// evaluator, so no cross-process locking is needed.
type RedisLedger struct {
	client    *redis.Client
	clock     clockwork.Clock
	keys      *keyLocks
	retention time.Duration
}

// NewRedisLedger wraps an existing Redis client. Retention must comfortably
// exceed the longest configured cooldown window.
func NewRedisLedger(client *redis.Client, clock clockwork.Clock, retention time.Duration) *RedisLedger {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisLedger{
		client:    client,
		clock:     clock,
		keys:      newKeyLocks(),
		retention: retention,
	}
}

func redisKey(key string) string {
	return "cooldown:" + key
}

// Allowed implements Ledger.
func (l *RedisLedger) Allowed(ctx context.Context, key string, window time.Duration) (bool, error) {
	val, err := l.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("cooldown lookup for %s: %w", key, err)
	}

	last, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		// Unparseable entry: treat as absent rather than blocking alerts forever.
		return true, nil
	}
	return l.clock.Now().Sub(last) >= window, nil
}

// Record implements Ledger. The entry expires well after any cooldown check
// would still consult it.
func (l *RedisLedger) Record(ctx context.Context, key string) error {
	now := l.clock.Now()
	if err := l.client.Set(ctx, redisKey(key), now.Format(time.RFC3339Nano), l.retention).Err(); err != nil {
		return fmt.Errorf("cooldown record for %s: %w", key, err)
	}
	return nil
}

// LockKey implements Ledger.
func (l *RedisLedger) LockKey(key string) func() {
	return l.keys.lock(key)
}
