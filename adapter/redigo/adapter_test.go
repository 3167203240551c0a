package redigo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ezraisw/kvlock/adapter"
	"github.com/ezraisw/kvlock/adapter/adaptertest"
	"github.com/ezraisw/kvlock/adapter/redigo"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle: 4,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
	}
}

func TestRunRedigoStoreSuite(t *testing.T) {
	var (
		mr   *miniredis.Miniredis
		pool *redis.Pool
	)

	suite.Run(t, &adaptertest.StoreSuite{
		Harness: adaptertest.Harness{
			NewStore: func() adapter.Store {
				mr = miniredis.RunT(t)
				pool = newPool(mr.Addr())
				return redigo.NewAdapter(pool)
			},
			Advance: func(d time.Duration) {
				mr.FastForward(d)
			},
			Close: func() {
				_ = pool.Close()
				mr.Close()
			},
		},
	})
}

func TestSetNXExpiryPrecision(t *testing.T) {
	mr := miniredis.RunT(t)
	pool := newPool(mr.Addr())
	defer pool.Close()

	store := redigo.NewAdapter(pool)
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "lock:s", "tok-A", 3*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, mr.TTL("lock:s"))

	ok, err = store.SetNX(ctx, "lock:ms", "tok-A", 250*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, mr.TTL("lock:ms"))
}

func TestStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	pool := newPool(mr.Addr())
	defer pool.Close()

	store := redigo.NewAdapter(pool)
	mr.Close()

	_, err := store.SetNX(context.Background(), "lock:a", "tok-A", time.Second)
	assert.Error(t, err)
}
