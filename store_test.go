package kvlock_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ezraisw/kvlock/adapter"
)

var errMock = errors.New("mock error")

type proxiedStore struct {
	store adapter.Store

	calls   int32
	expires int32

	setNXOverride            func(context.Context, string, string, time.Duration) (bool, error)
	expireOverride           func(context.Context, string, time.Duration) (bool, error)
	compareAndDeleteOverride func(context.Context, string, string) (bool, error)
	deleteOverride           func(context.Context, string) error
	getOverride              func(context.Context, string) (string, error)
}

func (a *proxiedStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.setNXOverride != nil {
		return a.setNXOverride(ctx, key, value, ttl)
	}

	return a.store.SetNX(ctx, key, value, ttl)
}

func (a *proxiedStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&a.calls, 1)
	atomic.AddInt32(&a.expires, 1)
	if a.expireOverride != nil {
		return a.expireOverride(ctx, key, ttl)
	}

	return a.store.Expire(ctx, key, ttl)
}

func (a *proxiedStore) CompareAndDelete(ctx context.Context, key string, value string) (bool, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.compareAndDeleteOverride != nil {
		return a.compareAndDeleteOverride(ctx, key, value)
	}

	return a.store.CompareAndDelete(ctx, key, value)
}

func (a *proxiedStore) Delete(ctx context.Context, key string) error {
	atomic.AddInt32(&a.calls, 1)
	if a.deleteOverride != nil {
		return a.deleteOverride(ctx, key)
	}

	return a.store.Delete(ctx, key)
}

func (a *proxiedStore) Get(ctx context.Context, key string) (string, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.getOverride != nil {
		return a.getOverride(ctx, key)
	}

	return a.store.Get(ctx, key)
}

func (a *proxiedStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	atomic.AddInt32(&a.calls, 1)
	return a.store.TTL(ctx, key)
}

func (a *proxiedStore) callCount() int32 {
	return atomic.LoadInt32(&a.calls)
}

func (a *proxiedStore) expireCount() int32 {
	return atomic.LoadInt32(&a.expires)
}
