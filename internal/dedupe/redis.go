package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper remembers processed message IDs with a TTL so redelivered
// webhook events can be skipped. Keys: dedupe:msg:{id}.
type RedisDeduper struct {
	rds       *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisDeduper(rds *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{rds: rds, keyPrefix: "dedupe:msg:", ttl: ttl}
}

// Seen marks id as processed (SET NX with TTL) and reports whether it had
// already been marked.
func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	set, err := d.rds.SetNX(ctx, d.keyPrefix+id, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
