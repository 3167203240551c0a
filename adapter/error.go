package adapter

import "errors"

var ErrNotFound = errors.New("kvlock: not found")
