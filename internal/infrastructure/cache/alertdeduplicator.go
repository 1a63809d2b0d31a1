package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// alertKeyPrefix is the prefix for all alert deduplication keys
const alertKeyPrefix = "hrms:alert:"

// AlertDeduplicator provides Redis-based alert cooldowns shared by every
// server instance.
type AlertDeduplicator struct {
	client *redis.Client
}

func NewAlertDeduplicator(client *redis.Client) *AlertDeduplicator {
	return &AlertDeduplicator{client: client}
}

func (d *AlertDeduplicator) buildKey(key string) string {
	return alertKeyPrefix + key
}

// TryAcquire atomically claims the cooldown for key using SetNX.
// Returns false while an earlier claim is still alive.
func (d *AlertDeduplicator) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := d.client.SetNX(ctx, d.buildKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire alert cooldown: %w", err)
	}
	return acquired, nil
}

// Clear drops the cooldown so the next alert for key is sent immediately.
func (d *AlertDeduplicator) Clear(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear alert cooldown: %w", err)
	}
	return nil
}

// RemainingCooldown returns 0 when key is not cooling down.
func (d *AlertDeduplicator) RemainingCooldown(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := d.client.TTL(ctx, d.buildKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get alert cooldown: %w", err)
	}
	// TTL returns -2 if key doesn't exist, -1 if no TTL set
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
