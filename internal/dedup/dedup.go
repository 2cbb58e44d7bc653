// Package dedup suppresses duplicate webhook deliveries. Telegram
// retries a delivery when it does not get an acknowledgment in time;
// replaying a confirm_ad update would credit the user twice.
package dedup

import (
	"context"
	"fmt"
	"time"

	redisplatform "adrewards-bot-backend/internal/platform/redis"
)

// Deduper reports whether an update id has been handled already.
type Deduper interface {
	Seen(ctx context.Context, updateID int64) (bool, error)
}

type RedisDeduper struct {
	client *redisplatform.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redisplatform.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

// Seen marks updateID as handled and reports whether it was already
// marked. SETNX keeps check-and-mark a single round trip.
func (d *RedisDeduper) Seen(ctx context.Context, updateID int64) (bool, error) {
	set, err := d.client.SetNX(ctx, key(updateID), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup setnx: %w", err)
	}
	return !set, nil
}

func key(updateID int64) string { return fmt.Sprintf("update:%d", updateID) }
