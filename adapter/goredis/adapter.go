package goredis

import (
	"context"
	"errors"
	"time"

	"github.com/ezraisw/kvlock/adapter"
	"github.com/redis/go-redis/v9"
)

var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

type goredisAdapter struct {
	client redis.UniversalClient
}

func NewAdapter(client redis.UniversalClient) adapter.Store {
	return &goredisAdapter{
		client: client,
	}
}

func (a goredisAdapter) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	// With a positive ttl go-redis issues a single SET key value NX PX/EX.
	return a.client.SetNX(ctx, key, value, ttl).Result()
}

func (a goredisAdapter) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return a.client.Expire(ctx, key, ttl).Result()
}

func (a goredisAdapter) CompareAndDelete(ctx context.Context, key string, value string) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, a.client, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (a goredisAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Del(ctx, key).Err()
}

func (a goredisAdapter) Get(ctx context.Context, key string) (string, error) {
	value, err := a.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = adapter.ErrNotFound
		}

		return "", err
	}

	return value, nil
}

func (a goredisAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := a.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// Negative replies are passed through unscaled: -2 missing key, -1 no expiry.
	switch ttl {
	case -2:
		return 0, adapter.ErrNotFound
	case -1:
		return 0, nil
	}

	return ttl, nil
}
