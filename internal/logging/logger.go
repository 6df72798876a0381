package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger fans messages out to the console and an optional log file.
type Logger struct {
	console *log.Logger
	file    *log.Logger
	handle  *os.File
	level   log.Level
	errors  int
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	console := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
	return &Logger{console: console, level: level}
}

// Discard returns a Logger that drops everything. Errors are still counted.
func Discard() *Logger {
	return New(io.Discard, log.DebugLevel)
}

// ParseLevel converts a level name (debug, info, warn, error) to a log.Level.
// "warning" and "information" are accepted as aliases.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "warning":
		return log.WarnLevel, nil
	case "information", "":
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// AttachFile mirrors every message at or above the logger level to path.
// The file is truncated on open.
func (l *Logger) AttachFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	l.handle = f
	l.file = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           l.level,
		Formatter:       log.LogfmtFormatter,
	})
	return nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.handle == nil {
		return nil
	}
	err := l.handle.Close()
	l.handle = nil
	l.file = nil
	return err
}

// Log writes msg at level to every sink.
func (l *Logger) Log(level log.Level, msg string, keyvals ...any) {
	if level >= log.ErrorLevel {
		l.errors++
	}
	l.console.Log(level, msg, keyvals...)
	if l.file != nil {
		l.file.Log(level, msg, keyvals...)
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) { l.Log(log.DebugLevel, msg, keyvals...) }

// Info logs at info level.
func (l *Logger) Info(msg string, keyvals ...any) { l.Log(log.InfoLevel, msg, keyvals...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) { l.Log(log.WarnLevel, msg, keyvals...) }

// Error logs at error level and bumps the error count.
func (l *Logger) Error(msg string, keyvals ...any) { l.Log(log.ErrorLevel, msg, keyvals...) }

// ErrorCount returns how many error-level messages were logged.
func (l *Logger) ErrorCount() int {
	return l.errors
}
