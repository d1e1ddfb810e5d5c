package logger

import (
	"io"
	"os"
	"sync"
)

// Logger provides structured logging with levels

type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
	out      io.Writer
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// New returns a Logger writing to stderr.
func New(minLevel LogLevel) *Logger {
	return &Logger{MinLevel: minLevel, out: os.Stderr}
}

// NewWithOutput returns a Logger writing to the given writer.
func NewWithOutput(minLevel LogLevel, out io.Writer) *Logger {
	return &Logger{MinLevel: minLevel, out: out}
}

// ParseLevel maps a level name to a LogLevel, defaulting to info.
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
