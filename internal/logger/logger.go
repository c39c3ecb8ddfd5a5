package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a logger will emit.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values default to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the diagnostic sink shared by every pipeline stage. The reflow
// engine also routes swallowed progress-channel faults here, so calls must
// never affect control flow.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type implLogger struct {
	logger *log.Logger
	level  Level
}

// New creates a Logger writing to stderr at the given minimum level.
// Formatted text and progress events go to stdout, so diagnostics must stay
// off that stream.
func New(level string) Logger {
	return NewWithWriter(os.Stderr, ParseLevel(level))
}

// NewWithWriter creates a Logger targeting an arbitrary writer, used by tests.
func NewWithWriter(w io.Writer, level Level) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.logger.Printf("[INFO] "+msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.logger.Printf("[WARN] "+msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= LevelError {
		l.logger.Printf("[ERROR] "+msg, args...)
	}
}

// Nop returns a Logger that discards everything. Used by package tests that
// exercise algorithms and do not care about diagnostics.
func Nop() Logger {
	return &implLogger{logger: log.New(io.Discard, "", 0), level: LevelError + 1}
}
