package logger

import (
	"io"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/sirupsen/logrus"

	"github.com/user/yuvenc/pkg/ports"
)

// LogrusLogger adapts ports.Logger to logrus. Messages are translated
// like the console logger; the component becomes a structured field.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus creates a logrus-backed logger writing to stderr. When json is
// true the output uses logrus.JSONFormatter.
func NewLogrus(level ports.LogLevel, json bool) *LogrusLogger {
	return NewLogrusWriter(os.Stderr, level, json)
}

// NewLogrusWriter is NewLogrus with an explicit output.
func NewLogrusWriter(w io.Writer, level ports.LogLevel, json bool) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetLevel(toLogrusLevel(level))
	if level == ports.LevelQuiet {
		l.SetOutput(io.Discard)
	}
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func toLogrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError, ports.LevelQuiet:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Debug logs a debug message.
func (l *LogrusLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debug(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *LogrusLogger) Info(msg string, args ...interface{}) {
	l.entry.Info(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *LogrusLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warn(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *LogrusLogger) Error(msg string, args ...interface{}) {
	l.entry.Error(l10n.F(msg, args...))
}

// WithComponent returns a logger carrying a "component" field.
func (l *LogrusLogger) WithComponent(component string) ports.Logger {
	return &LogrusLogger{entry: l.entry.WithField("component", component)}
}

var _ ports.Logger = (*LogrusLogger)(nil)
