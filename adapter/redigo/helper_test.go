package redigo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatExpirationArgs(t *testing.T) {
	cases := []struct {
		ttl      time.Duration
		expected []any
	}{
		{ttl: 0, expected: []any{}},
		{ttl: 10 * time.Second, expected: []any{"EX", int64(10)}},
		{ttl: 1500 * time.Millisecond, expected: []any{"PX", int64(1500)}},
		{ttl: 250 * time.Millisecond, expected: []any{"PX", int64(250)}},
		{ttl: 100 * time.Microsecond, expected: []any{"PX", int64(1)}},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, formatExpirationArgs(c.ttl), c.ttl.String())
	}
}

func TestFormatExpireCommand(t *testing.T) {
	cmd, n := formatExpireCommand(2 * time.Second)
	assert.Equal(t, CommandExpire, cmd)
	assert.Equal(t, int64(2), n)

	cmd, n = formatExpireCommand(20 * time.Millisecond)
	assert.Equal(t, CommandPExpire, cmd)
	assert.Equal(t, int64(20), n)
}
