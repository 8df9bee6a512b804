package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/burette/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
// It retries with a polling backoff until the context is canceled.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key

	// The value identifies this holder so unlock cannot release a lock
	// that expired and was re-acquired by someone else.
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	// Try immediately, then poll. Uncontended locks must not pay the
	// ticker interval; ticks are frequent in interactive runs.
	unlock, ok, err := l.tryLock(ctx, lockKey, val, ttl)
	if err != nil {
		return nil, err
	}
	if ok {
		return unlock, nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, ctx.Err())
		case <-ticker.C:
			unlock, ok, err := l.tryLock(ctx, lockKey, val, ttl)
			if err != nil {
				return nil, err
			}
			if ok {
				return unlock, nil
			}
			// Retry...
		}
	}
}

func (l *Locker) tryLock(ctx context.Context, lockKey, val string, ttl time.Duration) (ports.UnlockFunc, bool, error) {
	success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	if !success {
		return nil, false, nil
	}

	return func(ctx context.Context) error {
		// Safe unlock: delete only if the value still matches ours.
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return l.client.Eval(ctx, script, []string{lockKey}, val).Err()
	}, true, nil
}
