package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ErrJobLocked is returned to gocron when another replica holds the job.
var ErrJobLocked = errors.New("job is locked by another instance")

// LockStore is the storage behind the distributed locker.
type LockStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// distributedLocker adapts a LockStore to gocron.Locker.
type distributedLocker struct {
	store LockStore
	ttl   time.Duration
}

// NewDistributedLocker returns a gocron.Locker whose locks expire after ttl
// if the holder dies without releasing them.
func NewDistributedLocker(store LockStore, ttl time.Duration) gocron.Locker {
	return &distributedLocker{store: store, ttl: ttl}
}

func (l *distributedLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	token, ok, err := l.store.Acquire(ctx, key, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobLocked
	}
	return &heldLock{store: l.store, key: key, token: token}, nil
}

type heldLock struct {
	store LockStore
	key   string
	token string
}

func (h *heldLock) Unlock(ctx context.Context) error {
	return h.store.Release(ctx, h.key, h.token)
}
