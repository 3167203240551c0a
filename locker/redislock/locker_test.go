package redislock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
	"github.com/ezraisw/kvlock/locker"
	kvredislock "github.com/ezraisw/kvlock/locker/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (locker.Locker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lr := kvredislock.NewLockerWithRetryStrategy(client, time.Second, func() redislock.RetryStrategy {
		return redislock.LimitRetry(redislock.LinearBackoff(time.Millisecond), 2)
	})
	return lr, mr
}

func TestObtainAndRelease(t *testing.T) {
	ctx := context.Background()
	lr, mr := newLocker(t)

	lock, err := lr.Obtain(ctx, "job:1")
	require.NoError(t, err)
	assert.Equal(t, "job:1", lock.Key())

	value, err := mr.Get("job:1")
	require.NoError(t, err)
	assert.Contains(t, value, lock.Token())

	_, err = lr.Obtain(ctx, "job:1")
	assert.ErrorIs(t, err, locker.ErrNotObtained)

	require.NoError(t, lock.Release(ctx))
	assert.False(t, mr.Exists("job:1"))
}

func TestReleaseAfterExpiry(t *testing.T) {
	ctx := context.Background()
	lr, mr := newLocker(t)

	lock, err := lr.Obtain(ctx, "job:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	other, err := lr.Obtain(ctx, "job:1")
	require.NoError(t, err)

	assert.ErrorIs(t, lock.Release(ctx), locker.ErrNotHeld)
	assert.NoError(t, other.Release(ctx))
}

func TestDefaultLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	lr := kvredislock.NewLocker(client, time.Second)

	ran := false
	err := locker.Do(context.Background(), lr, "job:1", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
