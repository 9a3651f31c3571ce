// Package logging provides the structured logger used across stepquiz.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-logger/glog"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Levels, lowest first.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// Logger is the logging contract every component accepts.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
}

// New returns a go-logger backed Logger writing to w. A nil w means stderr.
func New(w io.Writer, level, format string) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	level = strings.ToLower(strings.TrimSpace(level))
	if !ValidLevel(level) {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var base glog.Logger
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		base = glog.NewLogger(glog.WithWriter(w), glog.WithLevel(level))
	case FormatJSON:
		base = glog.NewLogger(glog.WithWriter(w), glog.WithLoggerTypeJSON(), glog.WithLevel(level))
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return glogLogger{logger: base}, nil
}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Normalize maps a nil logger to Nop.
func Normalize(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}

type glogLogger struct {
	logger glog.Logger
}

func (l glogLogger) Trace(msg string, args ...any) { l.logger.Trace(msg, args...) }
func (l glogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l glogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l glogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l glogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l glogLogger) WithContext(ctx context.Context) Logger {
	return glogLogger{logger: l.logger.WithContext(ctx)}
}

func (l glogLogger) WithFields(fields map[string]any) Logger {
	if fl, ok := l.logger.(glog.FieldsLogger); ok {
		return glogLogger{logger: fl.WithFields(fields)}
	}
	return l
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Trace(string, ...any)                  {}
func (nopLogger) Debug(string, ...any)                  {}
func (nopLogger) Info(string, ...any)                   {}
func (nopLogger) Warn(string, ...any)                   {}
func (nopLogger) Error(string, ...any)                  {}
func (n nopLogger) WithFields(map[string]any) Logger   { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }
