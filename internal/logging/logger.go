package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// loggerName is the root module name attached to every entry.
const loggerName = "kimlik"

// ParseLevel parses a string into an hclog level. Unknown names yield Info.
func ParseLevel(s string) hclog.Level {
	level := hclog.LevelFromString(strings.TrimSpace(s))
	if level == hclog.NoLevel {
		return hclog.Info
	}
	return level
}

// Format represents the log output format.
type Format int

const (
	// FormatText outputs logs in human-readable text format.
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format.
	FormatJSON
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
	// WithRequestID returns a new logger with the given request ID.
	WithRequestID(requestID string) Logger
	// WithFields returns a new logger with the given fields.
	WithFields(keysAndValues ...interface{}) Logger
	// WithSource returns a new logger scoped to a component.
	WithSource(source string) Logger
	// WithUser returns a new logger tagged with the acting user.
	WithUser(user string) Logger
	// SetLevel changes the level of this logger and every logger derived from it.
	SetLevel(level string)
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	Output string
}

// logger adapts an hclog.Logger to Logger.
type logger struct {
	hl hclog.Logger
}

// New creates a new Logger with the given configuration.
func New(cfg Config) Logger {
	return newWithWriter(cfg, openOutput(cfg.Output))
}

// NewDefault creates a new Logger with default settings.
func NewDefault() Logger {
	return newWithWriter(Config{Level: "info", Format: "text"}, os.Stdout)
}

// NewNop creates a no-op logger that discards all output.
func NewNop() Logger {
	return &logger{hl: hclog.NewNullLogger()}
}

func newWithWriter(cfg Config, w io.Writer) Logger {
	return &logger{
		hl: hclog.New(&hclog.LoggerOptions{
			Name:       loggerName,
			Level:      ParseLevel(cfg.Level),
			Output:     w,
			JSONFormat: ParseFormat(cfg.Format) == FormatJSON,
			TimeFormat: time.RFC3339,
		}),
	}
}

// openOutput resolves an output name to a writer, falling back to stdout
// when a file cannot be opened.
func openOutput(name string) io.Writer {
	switch name {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return os.Stdout
		}
		return f
	}
}

// Debug logs a debug message.
func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.hl.Debug(msg, keysAndValues...)
}

// Info logs an info message.
func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.hl.Info(msg, keysAndValues...)
}

// Warn logs a warning message.
func (l *logger) Warn(msg string, keysAndValues ...interface{}) {
	l.hl.Warn(msg, keysAndValues...)
}

// Error logs an error message.
func (l *logger) Error(msg string, keysAndValues ...interface{}) {
	l.hl.Error(msg, keysAndValues...)
}

// WithRequestID returns a new logger with the given request ID.
func (l *logger) WithRequestID(requestID string) Logger {
	return &logger{hl: l.hl.With("request_id", requestID)}
}

// WithFields returns a new logger with the given fields.
func (l *logger) WithFields(keysAndValues ...interface{}) Logger {
	return &logger{hl: l.hl.With(keysAndValues...)}
}

// WithSource returns a logger named after the component.
func (l *logger) WithSource(source string) Logger {
	return &logger{hl: l.hl.Named(source)}
}

// WithUser returns a logger tagged with the acting user.
func (l *logger) WithUser(user string) Logger {
	return &logger{hl: l.hl.With("user", user)}
}

// SetLevel changes the level at runtime.
func (l *logger) SetLevel(level string) {
	l.hl.SetLevel(ParseLevel(level))
}
