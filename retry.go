package kvlock

import (
	"context"
	"time"

	"github.com/bsm/redislock"
)

// AcquireRetry polls lock.Acquire until it succeeds, the strategy stops returning a backoff,
// or ctx is done. Contention is retried; store and argument errors are returned at once.
func AcquireRetry(ctx context.Context, lock DistributedLock, key string, token string, ttl time.Duration, retry redislock.RetryStrategy) (bool, error) {
	if retry == nil {
		retry = redislock.NoRetry()
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		ok, err := lock.Acquire(ctx, key, token, ttl)
		if err != nil || ok {
			return ok, err
		}

		backoff := retry.NextBackoff()
		if backoff <= 0 {
			return false, nil
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
