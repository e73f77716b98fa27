package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when an action is attempted before its
// cool-down window has elapsed.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckAndSet acquires the rate-limit slot for key, or returns false when the
// slot is still held. A nil redis client disables limiting.
func CheckAndSet(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, "rate_limit:"+key, "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// TTL reports how long until the slot for key frees up.
func TTL(ctx context.Context, rdb *redis.Client, key string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, "rate_limit:"+key).Result()
}

// Clear releases the slot for key before its window elapses.
func Clear(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, "rate_limit:"+key).Result()
	return err
}
