package logger

import "github.com/user/yuvenc/pkg/ports"

// NoopLogger discards every message. Used by --quiet and by tests.
type NoopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() NoopLogger { return NoopLogger{} }

func (NoopLogger) Debug(string, ...interface{}) {}
func (NoopLogger) Info(string, ...interface{})  {}
func (NoopLogger) Warn(string, ...interface{})  {}
func (NoopLogger) Error(string, ...interface{}) {}

// WithComponent returns l unchanged.
func (l NoopLogger) WithComponent(string) ports.Logger { return l }

var _ ports.Logger = NoopLogger{}
