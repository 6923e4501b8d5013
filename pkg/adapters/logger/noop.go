package logger

import "github.com/user/vidpump/pkg/ports"

// NoopLogger discards every message. It backs quiet mode and is the
// fallback when an adapter is constructed without a logger.
type NoopLogger struct{}

// NewNoop creates a no-op logger.
func NewNoop() *NoopLogger { return &NoopLogger{} }

// Debug does nothing.
func (*NoopLogger) Debug(string, ...interface{}) {}

// Info does nothing.
func (*NoopLogger) Info(string, ...interface{}) {}

// Warn does nothing.
func (*NoopLogger) Warn(string, ...interface{}) {}

// Error does nothing.
func (*NoopLogger) Error(string, ...interface{}) {}

// WithComponent returns the same no-op logger.
func (*NoopLogger) WithComponent(string) ports.Logger { return &NoopLogger{} }

var _ ports.Logger = (*NoopLogger)(nil)
