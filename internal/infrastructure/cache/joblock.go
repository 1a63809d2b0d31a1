package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const jobLockKeyPrefix = "hrms:joblock:"

// releaseScript deletes the lock only while it still holds our token, so an
// expired holder never releases a lock that another instance has since taken.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// JobLockStore hands out short-lived exclusive locks for scheduled jobs so a
// job runs on one worker replica at a time.
type JobLockStore struct {
	client *redis.Client
}

func NewJobLockStore(client *redis.Client) *JobLockStore {
	return &JobLockStore{client: client}
}

// Acquire claims key for ttl. It returns the holder token, or ok=false when
// another holder owns the lock.
func (s *JobLockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.client.SetNX(ctx, jobLockKeyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees key if token still holds it. Releasing a lock that has
// expired or changed hands is a no-op.
func (s *JobLockStore) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{jobLockKeyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release job lock %s: %w", key, err)
	}
	return nil
}
