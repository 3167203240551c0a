package std_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ezraisw/kvlock/logger"
	"github.com/ezraisw/kvlock/logger/std"
	"github.com/stretchr/testify/assert"
)

func TestLevelRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := std.NewLoggerWithWriters(logger.LevelDebug, &out, &errOut)

	l.Debug("lock acquired", "job:42")
	l.Info("lock lost", "job:42")
	l.Error("store error", "job:42")

	assert.Contains(t, out.String(), "DEBUG lock acquired job:42")
	assert.Contains(t, out.String(), "INFO lock lost job:42")
	assert.NotContains(t, out.String(), "ERROR")
	assert.Contains(t, errOut.String(), "ERROR store error job:42")
}

func TestMinLevelFilter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := std.NewLoggerWithWriters(logger.LevelError, &out, &errOut)

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	assert.Empty(t, out.String())
	assert.Equal(t, 1, strings.Count(errOut.String(), "\n"))
}
