package kvlock

import (
	"context"
	"time"

	"github.com/bsm/redislock"
)

type (
	// RetryStrategyFunc creates a fresh retry strategy for one acquisition. Strategies are
	// stateful, so each call must return a new instance.
	RetryStrategyFunc func() redislock.RetryStrategy

	// DistributedLock provides cross-process mutual exclusion keyed by an ownership token.
	//
	// A false result with a nil error is a normal negative outcome: the lock is held by
	// someone else (Acquire) or the caller no longer holds it (Release). Store failures are
	// returned as *StoreError.
	DistributedLock interface {
		// Acquire sets token at key with the given ttl in one atomic operation if key is
		// absent. It never retries.
		Acquire(ctx context.Context, key string, token string, ttl time.Duration) (bool, error)

		// Release deletes key only if it still holds token, atomically on the server.
		// A false result means the lease was lost and must not be retried.
		Release(ctx context.Context, key string, token string) (bool, error)

		// Holder returns the token currently stored at key.
		Holder(ctx context.Context, key string) (string, bool, error)
	}

	// SpinLock is a best-effort lock for callers sharing one failure domain. It keeps
	// retrying a conditional create until it succeeds or the try timeout elapses.
	//
	// Creation and expiry are two separate store calls: a crash between them leaves the key
	// without expiry. Callers release by deleting the key or by letting it expire.
	SpinLock interface {
		// Set the delay policy between attempts.
		SetRetryStrategy(RetryStrategyFunc) SpinLock

		// Set the try timeout used by AcquireDefault.
		SetDefaultTryTimeout(time.Duration) SpinLock

		// Acquire retries until value is written at key or tryTimeout elapses. A positive
		// expiry is applied after the key is created.
		Acquire(ctx context.Context, key string, value string, tryTimeout time.Duration, expiry time.Duration) (bool, error)

		// AcquireDefault acquires with the default try timeout and no expiry.
		AcquireDefault(ctx context.Context, key string, value string) (bool, error)

		// Unlock deletes key regardless of its value.
		Unlock(ctx context.Context, key string) error
	}
)
