// Package logger provides ports.Logger implementations: a translated
// console logger, a logrus-backed structured logger and a no-op logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/yuvenc/pkg/ports"
)

const ansiReset = "\033[0m"

// ansi colours per level; the component tag is always cyan.
var levelColors = map[ports.LogLevel]string{
	ports.LevelDebug: "\033[90m",
	ports.LevelWarn:  "\033[33m",
	ports.LevelError: "\033[31m",
}

const tagColor = "\033[36m"

// ConsoleLogger writes translated, optionally coloured lines. Debug and
// info go to out; warnings and errors go to errOut.
type ConsoleLogger struct {
	level  ports.LogLevel
	tags   []string
	color  bool
	out    io.Writer
	errOut io.Writer
}

// NewConsole logs to stdout/stderr, coloured when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	return &ConsoleLogger{
		level:  level,
		color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewConsoleWriter logs uncoloured lines to the given writers.
func NewConsoleWriter(out, errOut io.Writer, level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{level: level, out: out, errOut: errOut}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.emit(ports.LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.emit(ports.LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.emit(ports.LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.emit(ports.LevelError, msg, args) }

// WithComponent returns a logger whose tag nests component under the
// current one, e.g. "<session>/encode".
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	child := *l
	child.tags = append(append([]string(nil), l.tags...), component)
	return &child
}

func (l *ConsoleLogger) emit(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.level {
		return
	}

	var b strings.Builder
	if len(l.tags) > 0 {
		tag := "[" + strings.Join(l.tags, "/") + "] "
		if l.color {
			tag = tagColor + tag + ansiReset
		}
		b.WriteString(tag)
	}
	b.WriteString(l10n.F(msg, args...))

	line := b.String()
	if c, ok := levelColors[level]; ok && l.color {
		line = c + line + ansiReset
	}

	w := l.out
	if level >= ports.LevelWarn {
		w = l.errOut
	}
	fmt.Fprintln(w, line)
}

var _ ports.Logger = (*ConsoleLogger)(nil)
