package kvlock

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/ezraisw/kvlock/adapter"
	"github.com/ezraisw/kvlock/logger"
)

const (
	TryTimeoutDefault = 5 * time.Second

	spinIntervalDefault = 25 * time.Millisecond
)

type defaultSpinLock struct {
	d                 lockDeps
	retryStrategy     RetryStrategyFunc
	defaultTryTimeout time.Duration
}

func NewSpinLock(store adapter.Store, logger logger.Logger) SpinLock {
	return &defaultSpinLock{
		d:                 newLockDeps(store, logger),
		retryStrategy:     DefaultSpinRetryStrategy,
		defaultTryTimeout: TryTimeoutDefault,
	}
}

func DefaultSpinRetryStrategy() redislock.RetryStrategy {
	return redislock.LinearBackoff(spinIntervalDefault)
}

func (l *defaultSpinLock) SetRetryStrategy(retryStrategy RetryStrategyFunc) SpinLock {
	if retryStrategy == nil {
		panic("nil retry strategy")
	}

	l.retryStrategy = retryStrategy
	return l
}

func (l *defaultSpinLock) SetDefaultTryTimeout(tryTimeout time.Duration) SpinLock {
	if tryTimeout < 0 {
		tryTimeout = 0
	}

	l.defaultTryTimeout = tryTimeout
	return l
}

func (l *defaultSpinLock) AcquireDefault(ctx context.Context, key string, value string) (bool, error) {
	return l.Acquire(ctx, key, value, l.defaultTryTimeout, 0)
}

func (l *defaultSpinLock) Acquire(ctx context.Context, key string, value string, tryTimeout time.Duration, expiry time.Duration) (bool, error) {
	if key == "" {
		return false, invalidArgument("empty key")
	}
	if tryTimeout < 0 {
		return false, invalidArgument("negative try timeout")
	}
	if expiry < 0 {
		return false, invalidArgument("negative expiry")
	}

	ok, err := l.spin(ctx, key, value, tryTimeout)
	if !ok {
		return false, err
	}

	l.d.logger.Debug("spin lock acquired", key)

	// Not atomic with the create above. A failure here leaves the key without expiry.
	if expiry > 0 {
		if _, err := l.d.store.Expire(ctx, key, expiry); err != nil {
			l.d.logger.Error(newStoreError("expire", key, err))
		}
	}

	return true, nil
}

func (l *defaultSpinLock) spin(ctx context.Context, key string, value string, tryTimeout time.Duration) (bool, error) {
	deadline := time.Now().Add(tryTimeout)
	retry := l.retryStrategy()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var failures int

	for {
		var lastErr error

		ok, err := l.d.store.SetNX(ctx, key, value, 0)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}

		if err != nil {
			lastErr = newStoreError("spin", key, err)
			failures++
			if failures == 1 {
				l.d.logger.Error(lastErr)
			} else {
				l.d.logger.Debug(lastErr)
			}
		} else if ok {
			return true, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil && failures > 1 {
				l.d.logger.Error(lastErr, "failures", failures)
			}
			l.d.logger.Debug("spin lock timed out", key)
			return false, lastErr
		}

		// An exhausted strategy falls back to the default interval; only the deadline or ctx
		// ends the loop.
		backoff := retry.NextBackoff()
		if backoff <= 0 {
			backoff = spinIntervalDefault
		}
		if backoff > remaining {
			backoff = remaining
		}

		if timer == nil {
			timer = time.NewTimer(backoff)
		} else {
			timer.Reset(backoff)
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *defaultSpinLock) Unlock(ctx context.Context, key string) error {
	if key == "" {
		return invalidArgument("empty key")
	}

	if err := l.d.store.Delete(ctx, key); err != nil {
		storeErr := newStoreError("unlock", key, err)
		l.d.logger.Error(storeErr)
		return storeErr
	}

	l.d.logger.Debug("spin lock released", key)
	return nil
}
