package rhttp

import (
	"log"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)
	LogErrorAfterFinalize(err error)
	LogHandlerPanic(v any)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("rhttp: unhandled serve error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("rhttp: error while flushing implicitly: %s", err)
}

func (l stdLogger) LogErrorAfterFinalize(err error) {
	l.Logger.Printf("rhttp: error after response was finalized: %s", err)
}

func (l stdLogger) LogHandlerPanic(v any) {
	l.Logger.Printf("rhttp: handler panic: %v", v)
}

// NewStdLogger inits a Logger that writes through a standard library logger.
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled serve error", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

func (l zapLogger) LogErrorAfterFinalize(err error) {
	l.Logger.Error("error after response was finalized", zap.Error(err))
}

func (l zapLogger) LogHandlerPanic(v any) {
	l.Logger.Error("handler panic", zap.Any("panic", v))
}

// NewZapLogger inits a Logger that logs through a zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("rhttp")}
}

// TestLogger counts logged events while forwarding them to the test's log output.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumLogErrorAfterFinalize  int64
	NumLogHandlerPanic        int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("rhttp: unhandled serve error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("rhttp: error while flushing implicitly: %s", err)
}

func (l *TestLogger) LogErrorAfterFinalize(err error) {
	atomic.AddInt64(&l.NumLogErrorAfterFinalize, 1)
	l.tb.Logf("rhttp: error after response was finalized: %s", err)
}

func (l *TestLogger) LogHandlerPanic(v any) {
	atomic.AddInt64(&l.NumLogHandlerPanic, 1)
	l.tb.Logf("rhttp: handler panic: %v", v)
}

var _ Logger = &TestLogger{}
