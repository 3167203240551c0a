package adapter

import (
	"context"
	"time"
)

// Store is the primitive command set a lock needs from a key-value store.
// Implementations must make SetNX and CompareAndDelete atomic on the server side.
type Store interface {
	// SetNX writes value at key only if key is absent. A positive ttl is attached in the
	// same operation; zero means no expiry.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	// Expire sets the expiry of an existing key. Reports false if key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// CompareAndDelete deletes key only if its current value equals value.
	CompareAndDelete(ctx context.Context, key string, value string) (bool, error)

	Delete(ctx context.Context, key string) error

	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)

	// TTL returns the remaining lifetime of key, zero if it has no expiry and ErrNotFound
	// when key is absent.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
