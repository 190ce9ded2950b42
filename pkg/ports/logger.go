// Package ports defines the interfaces between the pipeline and its
// collaborators: encoder, container writer, file system, logger.
package ports

import (
	"fmt"
	"strings"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for adapter internals (ffmpeg arguments, NAL counts).
	LevelDebug LogLevel = iota
	// LevelInfo is for stage progress.
	LevelInfo
	// LevelWarn is for problems that don't stop the run.
	LevelWarn
	// LevelError is for failures that abort the run.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel accepts the names produced by String, case-insensitively.
// An empty string means LevelInfo.
func ParseLogLevel(s string) (LogLevel, error) {
	if s == "" {
		return LevelInfo, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger abstracts logging. msg is a printf format that doubles as the
// translation key, so it must be a constant string.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger tagged with the component name
	// (a stage name or an encode session id).
	WithComponent(component string) Logger
}
