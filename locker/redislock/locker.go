package redislock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/ezraisw/kvlock"
	"github.com/ezraisw/kvlock/locker"
)

type redislockLocker struct {
	lc            *redislock.Client
	lockTtl       time.Duration
	retryStrategy kvlock.RetryStrategyFunc
}

func NewLocker(client redislock.RedisClient, lockTtl time.Duration) locker.Locker {
	return NewLockerWithRetryStrategy(client, lockTtl, func() redislock.RetryStrategy {
		return redislock.LimitRetry(redislock.ExponentialBackoff(16*time.Millisecond, 4096*time.Millisecond), 32)
	})
}

func NewLockerWithRetryStrategy(client redislock.RedisClient, lockTtl time.Duration, retryStrategy kvlock.RetryStrategyFunc) locker.Locker {
	return &redislockLocker{
		lc:            redislock.New(client),
		lockTtl:       lockTtl,
		retryStrategy: retryStrategy,
	}
}

func (lr redislockLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	lock, err := lr.lc.Obtain(ctx, key, lr.lockTtl, &redislock.Options{
		RetryStrategy: lr.retryStrategy(),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, locker.ErrNotObtained
		}
		return nil, err
	}
	return &redislockLock{lock: lock}, nil
}

type redislockLock struct {
	lock *redislock.Lock
}

func (l redislockLock) Key() string {
	return l.lock.Key()
}

func (l redislockLock) Token() string {
	return l.lock.Token()
}

func (l redislockLock) Release(ctx context.Context) error {
	if err := l.lock.Release(ctx); err != nil {
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return locker.ErrNotHeld
		}
		return err
	}
	return nil
}
