package kvlock

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("kvlock: invalid argument")
	ErrStoreUnavailable = errors.New("kvlock: store unavailable")
)

// StoreError reports a failed round trip to the store. It matches ErrStoreUnavailable with
// errors.Is and unwraps to the client error.
type StoreError struct {
	Op          string
	Key         string
	previousErr error
}

func newStoreError(op string, key string, previousErr error) *StoreError {
	return &StoreError{
		Op:          op,
		Key:         key,
		previousErr: previousErr,
	}
}

func (e StoreError) Error() string {
	return fmt.Sprintf("kvlock: %s %q (%s)", e.Op, e.Key, e.previousErr.Error())
}

func (e StoreError) Unwrap() error {
	return e.previousErr
}

func (e StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func invalidArgument(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}
