package nop

import "github.com/ezraisw/kvlock/logger"

type nopLogger struct{}

func NewLogger() logger.Logger {
	return nopLogger{}
}

func (nopLogger) Info(...any)  {}
func (nopLogger) Debug(...any) {}
func (nopLogger) Error(...any) {}
