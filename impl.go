package kvlock

import (
	"context"
	"errors"
	"time"

	"github.com/ezraisw/kvlock/adapter"
	"github.com/ezraisw/kvlock/logger"
	"github.com/ezraisw/kvlock/logger/nop"
)

type (
	lockDeps struct {
		store  adapter.Store
		logger logger.Logger
	}

	defaultDistributedLock struct {
		d lockDeps
	}
)

func newLockDeps(store adapter.Store, lg logger.Logger) lockDeps {
	if lg == nil {
		lg = nop.NewLogger()
	}

	return lockDeps{
		store:  store,
		logger: lg,
	}
}

// NewDistributedLock builds a lock on top of store. A nil logger discards log output.
func NewDistributedLock(store adapter.Store, logger logger.Logger) DistributedLock {
	return &defaultDistributedLock{
		d: newLockDeps(store, logger),
	}
}

func (l defaultDistributedLock) Acquire(ctx context.Context, key string, token string, ttl time.Duration) (bool, error) {
	if err := validateLease(key, token, ttl); err != nil {
		return false, err
	}

	ok, err := l.d.store.SetNX(ctx, key, token, ttl)
	if err != nil {
		storeErr := newStoreError("acquire", key, err)
		l.d.logger.Error(storeErr)
		return false, storeErr
	}

	if !ok {
		l.d.logger.Debug("lock contended", key)
		return false, nil
	}

	l.d.logger.Debug("lock acquired", key, "ttl", ttl)
	return true, nil
}

func (l defaultDistributedLock) Release(ctx context.Context, key string, token string) (bool, error) {
	if key == "" {
		return false, invalidArgument("empty key")
	}
	if token == "" {
		return false, invalidArgument("empty token")
	}

	ok, err := l.d.store.CompareAndDelete(ctx, key, token)
	if err != nil {
		storeErr := newStoreError("release", key, err)
		l.d.logger.Error(storeErr)
		return false, storeErr
	}

	if !ok {
		l.d.logger.Info("lock not held", key)
		return false, nil
	}

	l.d.logger.Debug("lock released", key)
	return true, nil
}

func (l defaultDistributedLock) Holder(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, invalidArgument("empty key")
	}

	token, err := l.d.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return "", false, nil
		}

		storeErr := newStoreError("holder", key, err)
		l.d.logger.Error(storeErr)
		return "", false, storeErr
	}

	return token, true, nil
}

func validateLease(key string, token string, ttl time.Duration) error {
	if key == "" {
		return invalidArgument("empty key")
	}
	if token == "" {
		return invalidArgument("empty token")
	}
	if ttl <= 0 {
		return invalidArgument("ttl must be positive")
	}
	return nil
}
