// Package plog defines the two-level logging interface the layer and
// packet packages use to report tolerated parse problems (a truncated
// header, a malformed TCP option) without making those conditions fatal.
// Ownership conflicts and missing layers are returned as errors by the
// packet package and are not logged. It is a thin façade over log/slog, matching
// how the daemon side of this corpus (dantte-lp-gobfd's internal/server)
// logs directly through log/slog rather than a third-party logging
// facade.
package plog

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a two-level logging interface, error and debug, with a
// printf-style call shape so tolerant-parse sites can log a formatted
// message without building a slog.Attr list.
type Logger interface {
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// slogLogger adapts a *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// FromSlog wraps an existing *slog.Logger.
func FromSlog(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

func (s slogLogger) Errorf(format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...))
}

func (s slogLogger) Debugf(format string, args ...any) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

// Default returns a Logger backed by slog's default text handler on
// stderr, at Info level (debug messages are suppressed unless the caller
// configures a more verbose handler via FromSlog).
func Default() Logger {
	return FromSlog(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// discard drops every message. Used by tests that exercise the
// Truncated/MalformedOption tolerant-parse paths to suppress expected
// error-level noise.
type discard struct{}

func (discard) Errorf(string, ...any) {}
func (discard) Debugf(string, ...any) {}

// Discard returns a Logger that drops every message.
func Discard() Logger {
	return discard{}
}
