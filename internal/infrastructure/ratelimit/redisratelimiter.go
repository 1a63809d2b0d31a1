package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hrms:ratelimit:"

// slidingWindowScript trims entries older than the window, then records the
// request only when the window still has room. Rejected requests are not
// recorded, so a throttled client regains capacity as its old hits age out.
//
// KEYS[1] window key
// ARGV[1] window start (unix nanos), ARGV[2] now (unix nanos),
// ARGV[3] limit, ARGV[4] key ttl (ms)
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisRateLimiter enforces per-key sliding windows in Redis, so every server
// replica shares one budget per employee.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, now: time.Now}
}

type window struct {
	span  time.Duration
	limit int
}

func (c RateLimitConfig) windows() []window {
	return []window{
		{time.Minute, c.RequestsPerMinute},
		{time.Hour, c.RequestsPerHour},
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	now := l.now()
	for _, w := range config.windows() {
		if w.limit <= 0 {
			continue
		}
		ok, err := l.take(ctx, key, w, now)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (l *RedisRateLimiter) take(ctx context.Context, key string, w window, now time.Time) (bool, error) {
	ttl := w.span + time.Minute
	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{windowKey(key, w.span)},
		strconv.FormatInt(now.Add(-w.span).UnixNano(), 10),
		strconv.FormatInt(now.UnixNano(), 10),
		w.limit,
		ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit %s/%s: %w", key, w.span, err)
	}
	return res == 1, nil
}

// Reset clears every window kept for key.
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	iter := l.client.Scan(ctx, 0, keyPrefix+key+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan rate limit keys for %s: %w", key, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete rate limit keys for %s: %w", key, err)
	}
	return nil
}

func windowKey(key string, span time.Duration) string {
	return keyPrefix + key + ":" + span.String()
}
