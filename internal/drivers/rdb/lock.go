package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLockNotOwned = errors.New("lock expired, deleted or owned by another worker")

// How long to wait between attempts in Lock
const lockRetryInterval = 50 * time.Millisecond

var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type RedisLock struct {
	rdb   *Service
	key   string // should be unique to the resource being locked
	value string // should be unique to the worker doing the lock
	ttl   time.Duration
}

func (s *Service) NewLock(key, value string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		rdb:   s,
		key:   key,
		value: value,
		ttl:   ttl,
	}
}

// Lock blocks until it acquires the lock or the context is done.
// It sets key-value ONLY if the key doesn't exist.
func (l *RedisLock) Lock(ctx context.Context) error {

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}

		if success {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// TryLock only tries to aquire a lock,
// and informs the caller if it was successful or not.
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	return l.rdb.Client.SetNX(ctx, l.key, l.value, l.ttl).Result()
}

// CheckLock checks if the caller still owns the lock.
func (l *RedisLock) CheckLock(ctx context.Context) error {

	value, err := l.rdb.Client.Get(ctx, l.key).Result()

	if err == redis.Nil {
		return ErrLockNotOwned
	}

	if err != nil {
		return fmt.Errorf("connectivity error during lock check: %w", err)
	}

	if value != l.value {
		return fmt.Errorf("%w: expected %s, got %s", ErrLockNotOwned, l.value, value)
	}

	return nil
}

// Unlock deletes the key-value from Redis
// ONLY if the value is the correct value using LUA atomic script.
func (l *RedisLock) Unlock(ctx context.Context) error {
	return unlockScript.Run(ctx, l.rdb.Client, []string{l.key}, l.value).Err()
}
