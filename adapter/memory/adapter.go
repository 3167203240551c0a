package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ezraisw/kvlock/adapter"
	"github.com/karlseguin/ccache/v2"
)

// ccache has no notion of a persistent item, so keys without expiry get a lifetime long
// enough to never matter.
const noExpiry = 100 * 365 * 24 * time.Hour

var ErrStopped = errors.New("kvlock: memory store stopped")

// Store is an adapter.Store whose background cache worker can be stopped.
type Store interface {
	adapter.Store

	// Stop ends the cache worker. Every later call returns ErrStopped.
	Stop()
}

type memoryAdapter struct {
	mu       sync.Mutex
	cacheCfg *ccache.Configuration
	cache    *ccache.Cache
	stopped  bool
}

// NewAdapter returns a Store kept in process memory. It only coordinates callers sharing the
// same adapter instance.
func NewAdapter() Store {
	return NewAdapterWithConfiguration(ccache.Configure().MaxSize(1 << 20))
}

// NewAdapterWithConfiguration uses a caller supplied ccache configuration. ccache prunes the
// least recently used items past MaxSize and a pruned key is a released lock, so MaxSize must
// cover the expected number of keys.
func NewAdapterWithConfiguration(cacheCfg *ccache.Configuration) Store {
	return &memoryAdapter{
		cacheCfg: cacheCfg,
	}
}

func (a *memoryAdapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true

	if a.cache != nil {
		a.cache.Stop()
		a.cache = nil
	}
}

// getCache must be called with mu held.
func (a *memoryAdapter) getCache() *ccache.Cache {
	// Lazily create the instance.
	if a.cache == nil {
		a.cache = ccache.New(a.cacheCfg)
	}

	return a.cache
}

// live must be called with mu held.
func (a *memoryAdapter) live(key string) *ccache.Item {
	item := a.getCache().Get(key)
	if item == nil || item.Expired() {
		return nil
	}

	return item
}

func (a *memoryAdapter) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false, ErrStopped
	}

	if a.live(key) != nil {
		return false, nil
	}

	if ttl <= 0 {
		ttl = noExpiry
	}
	a.getCache().Set(key, value, ttl)

	return true, nil
}

func (a *memoryAdapter) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false, ErrStopped
	}

	item := a.live(key)
	if item == nil {
		return false, nil
	}

	// Redis deletes a key given a non-positive expiry.
	if ttl <= 0 {
		a.getCache().Delete(key)
		return true, nil
	}

	item.Extend(ttl)
	return true, nil
}

func (a *memoryAdapter) CompareAndDelete(ctx context.Context, key string, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false, ErrStopped
	}

	item := a.live(key)
	if item == nil {
		return false, nil
	}

	// Ignore casting errors.
	current, _ := item.Value().(string)
	if current != value {
		return false, nil
	}

	a.getCache().Delete(key)
	return true, nil
}

func (a *memoryAdapter) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return ErrStopped
	}

	a.getCache().Delete(key)
	return nil
}

func (a *memoryAdapter) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return "", ErrStopped
	}

	item := a.live(key)
	if item == nil {
		return "", adapter.ErrNotFound
	}

	value, _ := item.Value().(string)
	return value, nil
}

func (a *memoryAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return 0, ErrStopped
	}

	item := a.live(key)
	if item == nil {
		return 0, adapter.ErrNotFound
	}

	ttl := item.TTL()
	if ttl > noExpiry/2 {
		return 0, nil
	}

	return ttl, nil
}
