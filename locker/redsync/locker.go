package redsync

import (
	"context"
	"errors"
	"time"

	"github.com/ezraisw/kvlock/locker"
	"github.com/ezraisw/kvlock/token"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis"
)

const (
	triesDefault = 32
)

type redsyncLocker struct {
	rs        *redsync.Redsync
	generator *token.Generator
	lockTtl   time.Duration
	tries     int
}

// NewLocker runs redsync across pools. With more than one pool a lock is held once a
// majority of them accepted it.
func NewLocker(lockTtl time.Duration, pools ...redis.Pool) locker.Locker {
	return NewLockerWithTries(lockTtl, triesDefault, pools...)
}

func NewLockerWithTries(lockTtl time.Duration, tries int, pools ...redis.Pool) locker.Locker {
	if tries < 1 {
		tries = 1
	}

	return &redsyncLocker{
		rs:        redsync.New(pools...),
		generator: token.NewGenerator(),
		lockTtl:   lockTtl,
		tries:     tries,
	}
}

func (lr redsyncLocker) Obtain(ctx context.Context, key string) (locker.Lock, error) {
	mutex := lr.rs.NewMutex(key,
		redsync.WithExpiry(lr.lockTtl),
		redsync.WithTries(lr.tries),
		redsync.WithGenValueFunc(lr.generator.New),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, locker.ErrNotObtained
		}
		return nil, err
	}

	return &redsyncLock{mutex: mutex}, nil
}

type redsyncLock struct {
	mutex *redsync.Mutex
}

func (l redsyncLock) Key() string {
	return l.mutex.Name()
}

func (l redsyncLock) Token() string {
	return l.mutex.Value()
}

func (l redsyncLock) Release(ctx context.Context) error {
	ok, err := l.mutex.UnlockContext(ctx)
	if ok {
		return nil
	}

	var taken *redsync.ErrTaken
	if err == nil || errors.Is(err, redsync.ErrLockAlreadyExpired) || errors.As(err, &taken) {
		return locker.ErrNotHeld
	}
	return err
}
