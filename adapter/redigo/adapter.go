package redigo

import (
	"context"
	"errors"
	"time"

	"github.com/ezraisw/kvlock/adapter"
	"github.com/gomodule/redigo/redis"
)

var compareAndDeleteScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

type redigoAdapter struct {
	pool *redis.Pool
}

func NewAdapter(pool *redis.Pool) adapter.Store {
	return &redigoAdapter{
		pool: pool,
	}
}

func (a redigoAdapter) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	if ttl <= 0 {
		n, err := redis.Int64(conn.Do(CommandSetNX, key, value))
		if err != nil {
			return false, err
		}
		return n == 1, nil
	}

	args := append([]any{key, value, optionNX}, formatExpirationArgs(ttl)...)

	// SET ... NX replies nil when the key already exists.
	if _, err := redis.String(conn.Do(CommandSet, args...)); err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (a redigoAdapter) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	cmd, t := formatExpireCommand(ttl)

	n, err := redis.Int64(conn.Do(cmd, key, t))
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (a redigoAdapter) CompareAndDelete(ctx context.Context, key string, value string) (bool, error) {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	n, err := redis.Int64(compareAndDeleteScript.Do(conn, key, value))
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (a redigoAdapter) Delete(ctx context.Context, key string) error {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Do(CommandDel, key)
	return err
}

func (a redigoAdapter) Get(ctx context.Context, key string) (string, error) {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	value, err := redis.String(conn.Do(CommandGet, key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			err = adapter.ErrNotFound
		}

		return "", err
	}

	return value, nil
}

func (a redigoAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	conn, err := a.pool.GetContext(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	ms, err := redis.Int64(conn.Do(CommandPTTL, key))
	if err != nil {
		return 0, err
	}

	switch ms {
	case -2:
		return 0, adapter.ErrNotFound
	case -1:
		return 0, nil
	}

	return time.Duration(ms) * time.Millisecond, nil
}
