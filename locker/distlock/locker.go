package distlock

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/ezraisw/kvlock"
	"github.com/ezraisw/kvlock/locker"
	"github.com/ezraisw/kvlock/token"
)

const (
	TTLDefault = 10 * time.Second
)

// DefaultRetryStrategy polls with exponential backoff for at most 32 attempts.
func DefaultRetryStrategy() redislock.RetryStrategy {
	return redislock.LimitRetry(redislock.ExponentialBackoff(16*time.Millisecond, time.Second), 32)
}

type tokenLocker struct {
	dl            kvlock.DistributedLock
	generator     *token.Generator
	lockTtl       time.Duration
	retryStrategy kvlock.RetryStrategyFunc
}

// NewLocker hands out locks backed by dl, each with a freshly generated ownership token.
func NewLocker(dl kvlock.DistributedLock, lockTtl time.Duration) locker.Locker {
	return NewLockerWithOptions(dl, token.NewGenerator(), lockTtl, DefaultRetryStrategy)
}

func NewLockerWithOptions(dl kvlock.DistributedLock, generator *token.Generator, lockTtl time.Duration, retryStrategy kvlock.RetryStrategyFunc) locker.Locker {
	if lockTtl <= 0 {
		lockTtl = TTLDefault
	}
	if retryStrategy == nil {
		retryStrategy = redislock.NoRetry
	}

	return &tokenLocker{
		dl:            dl,
		generator:     generator,
		lockTtl:       lockTtl,
		retryStrategy: retryStrategy,
	}
}

func (lr tokenLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	tok, err := lr.generator.New()
	if err != nil {
		return nil, err
	}

	ok, err := kvlock.AcquireRetry(ctx, lr.dl, key, tok, lr.lockTtl, lr.retryStrategy())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, locker.ErrNotObtained
	}

	return &tokenLock{
		dl:    lr.dl,
		key:   key,
		token: tok,
	}, nil
}

type tokenLock struct {
	dl    kvlock.DistributedLock
	key   string
	token string
}

func (l tokenLock) Key() string {
	return l.key
}

func (l tokenLock) Token() string {
	return l.token
}

func (l tokenLock) Release(ctx context.Context) error {
	ok, err := l.dl.Release(ctx, l.key, l.token)
	if err != nil {
		return err
	}
	if !ok {
		return locker.ErrNotHeld
	}
	return nil
}
