package std

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ezraisw/kvlock/logger"
)

type stdLogger struct {
	mu       sync.Mutex
	minLevel logger.Level
	out      io.Writer
	errOut   io.Writer
}

// NewLogger logs every level, info and debug to stdout and errors to stderr.
func NewLogger() logger.Logger {
	return NewLoggerWithLevel(logger.LevelDebug)
}

func NewLoggerWithLevel(minLevel logger.Level) logger.Logger {
	return NewLoggerWithWriters(minLevel, os.Stdout, os.Stderr)
}

func NewLoggerWithWriters(minLevel logger.Level, out, errOut io.Writer) logger.Logger {
	return &stdLogger{
		minLevel: minLevel,
		out:      out,
		errOut:   errOut,
	}
}

func (l *stdLogger) Info(args ...any) {
	l.write(logger.LevelInfo, l.out, args)
}

func (l *stdLogger) Debug(args ...any) {
	l.write(logger.LevelDebug, l.out, args)
}

func (l *stdLogger) Error(args ...any) {
	l.write(logger.LevelError, l.errOut, args)
}

func (l *stdLogger) write(level logger.Level, w io.Writer, args []any) {
	if level < l.minLevel {
		return
	}

	line := append([]any{time.Now().Format(time.RFC3339), level.String()}, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, line...)
}
