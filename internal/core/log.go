package core

import (
	"log/slog"
	"sync/atomic"
)

// logger holds a caller-supplied logger. nil means "derive from slog.Default".
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches the logger derived from slog.Default so that Logger
// does not allocate on every call. SetLogger clears it.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the package-level logger. Without a custom logger it returns
// slog.Default() tagged with component=personapool, cached after first use.
// Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "personapool")
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// SetLogger replaces the package-level logger. Passing nil restores the
// slog.Default-derived logger, re-read on the next Logger call.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
