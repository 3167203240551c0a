package locker

import (
	"context"
	"errors"
)

var (
	ErrNotObtained = errors.New("kvlock: lock not obtained")
	ErrNotHeld     = errors.New("kvlock: lock not held")
)

type Locker interface {
	// Obtain returns ErrNotObtained when the lock stays held by someone else for the
	// whole retry budget.
	Obtain(ctx context.Context, key string) (Lock, error)
}

type Lock interface {
	Key() string
	Token() string

	// Release returns ErrNotHeld if the lease expired or was taken over.
	Release(ctx context.Context) error
}

// Do runs fn while holding the lock for key. The lock is always released afterwards; an
// error from fn takes precedence over a release error.
func Do(ctx context.Context, lr Locker, key string, fn func(ctx context.Context) error) error {
	lock, err := lr.Obtain(ctx, key)
	if err != nil {
		return err
	}

	fnErr := fn(ctx)

	// Release even when ctx is already cancelled so the lease does not linger until expiry.
	relErr := lock.Release(context.WithoutCancel(ctx))
	if fnErr != nil {
		return fnErr
	}

	return relErr
}
