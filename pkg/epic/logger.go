package epic

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Logger provides structured logging hooks for run diagnostics. Args are
// alternating key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, ...any) {}

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps l.
func NewZerologLogger(l zerolog.Logger) ZerologLogger {
	return ZerologLogger{l: l}
}

// Debug implements Logger.
func (z ZerologLogger) Debug(msg string, args ...any) {
	z.emit(z.l.Debug(), msg, args)
}

// Info implements Logger.
func (z ZerologLogger) Info(msg string, args ...any) {
	z.emit(z.l.Info(), msg, args)
}

// Warn implements Logger.
func (z ZerologLogger) Warn(msg string, args ...any) {
	z.emit(z.l.Warn(), msg, args)
}

// Error implements Logger.
func (z ZerologLogger) Error(msg string, args ...any) {
	z.emit(z.l.Error(), msg, args)
}

func (z ZerologLogger) emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		ev = ev.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	ev.Msg(msg)
}
