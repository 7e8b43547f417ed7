// Package logger provides the structured logging seam for statement
// execution and connection lifecycle events, with a log/slog adapter and a
// parameter sanitizer for statement arguments.
package logger

import "log/slog"

// Logger receives lifecycle and statement events as a message plus
// alternating key-value pairs. The driver logs acquire/release and
// transaction boundaries at Debug; executed statements carry their SQL text
// and sanitized arguments.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything. It is the default when no logger is
// configured, keeping the execution path free of logging overhead.
type NoopLogger struct{}

// Debug does nothing.
func (n *NoopLogger) Debug(_ string, _ ...any) {}

// Info does nothing.
func (n *NoopLogger) Info(_ string, _ ...any) {}

// Warn does nothing.
func (n *NoopLogger) Warn(_ string, _ ...any) {}

// Error does nothing.
func (n *NoopLogger) Error(_ string, _ ...any) {}

// SlogAdapter forwards events to a *slog.Logger, passing the key-value pairs
// through unchanged.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter over the given slog.Logger.
// The logger must not be nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Debug forwards a debug-level event.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info forwards an info-level event.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn forwards a warning-level event.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error forwards an error-level event.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}
