// Package logging provides structured logging using bolt.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// File appends output to the named file instead of Output.
	File string

	// Output is the output destination when File is empty. Defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns a configuration with sensible defaults for the CLI.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	}
}

// Logger is an explicitly passed structured logger.
type Logger struct {
	log    *bolt.Logger
	closer io.Closer
}

var discard = bolt.New(bolt.NewJSONHandler(io.Discard)).SetLevel(bolt.ERROR)

// parseLevel converts a string level to bolt.Level.
func parseLevel(s string) bolt.Level {
	switch strings.ToLower(s) {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

func newHandler(format string, w io.Writer) bolt.Handler {
	if format == "json" {
		return bolt.NewJSONHandler(w)
	}
	return bolt.NewConsoleHandler(w)
}

// New creates a logger from config. A log file that cannot be opened is
// reported with its classified kind.
func New(config Config) (*Logger, error) {
	output := config.Output
	var closer io.Closer

	if config.File != "" {
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, failure.FromError(err, failure.KindInvalidArgument, "cannot open log file %s", config.File)
		}
		output = f
		closer = f
	}
	if output == nil {
		output = os.Stderr
	}

	return &Logger{
		log:    bolt.New(newHandler(config.Format, output)).SetLevel(parseLevel(config.Level)),
		closer: closer,
	}, nil
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *Logger {
	return &Logger{
		log: bolt.New(newHandler(format, w)).SetLevel(parseLevel(level)),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{log: discard}
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level string) {
	if l == nil || l.log == nil {
		return
	}
	l.log.SetLevel(parseLevel(level))
}

func (l *Logger) base() *bolt.Logger {
	if l == nil || l.log == nil {
		return discard
	}
	return l.log
}

// LogEvent is a wrapper that allows adding Fields to a bolt.Event.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt.Event for field application.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// With applies several fields in order.
func (l *LogEvent) With(fields ...Field) *LogEvent {
	for _, f := range fields {
		l.event = f(l.event)
	}
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Send sends the log event without a message.
func (l *LogEvent) Send() {
	l.event.Send()
}

// Trace returns a LogEvent wrapper for trace level logging.
func (l *Logger) Trace() *LogEvent {
	return &LogEvent{event: l.base().Trace()}
}

// Debug returns a LogEvent wrapper for debug level logging.
func (l *Logger) Debug() *LogEvent {
	return &LogEvent{event: l.base().Debug()}
}

// Info returns a LogEvent wrapper for info level logging.
func (l *Logger) Info() *LogEvent {
	return &LogEvent{event: l.base().Info()}
}

// Warn returns a LogEvent wrapper for warn level logging.
func (l *Logger) Warn() *LogEvent {
	return &LogEvent{event: l.base().Warn()}
}

// Error returns a LogEvent wrapper for error level logging.
func (l *Logger) Error() *LogEvent {
	return &LogEvent{event: l.base().Error()}
}
