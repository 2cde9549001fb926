package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Logger is a leveled logger backed by charmbracelet/log.
// Output is discarded until a file or writer is configured, since the
// terminal belongs to the TUI.
type Logger struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
	file   *os.File
}

// Default is the default logger instance
var Default *Logger

func init() {
	Default = New()
}

func newBackend(w io.Writer, level Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level.charm(),
	})
}

// New creates a new logger based on environment variables
func New() *Logger {
	l := &Logger{level: LevelInfo}

	if levelStr := os.Getenv("FRONTDESK_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level = level
		}
	}

	out := io.Discard
	if logFile := os.Getenv("FRONTDESK_LOG_FILE"); logFile != "" {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			l.file = f
			out = f
		}
	}
	l.logger = newBackend(out, l.level)

	return l
}

// Configure applies level and file settings coming from the config layer.
// An empty level or file leaves the current setting untouched.
func (l *Logger) Configure(level, file string) error {
	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lvl)
	}
	if file == "" {
		return nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.logger.SetOutput(f)
	return nil
}

// Close closes the logger and any open file handles
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.logger.SetLevel(level.charm())
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	switch level {
	case LevelDebug:
		l.logger.Debugf(format, v...)
	case LevelInfo:
		l.logger.Infof(format, v...)
	case LevelWarn:
		l.logger.Warnf(format, v...)
	default:
		l.logger.Errorf(format, v...)
	}
}

// Package-level functions that use the default logger

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	Default.Debug(format, v...)
}

// Info logs an info message using the default logger
func Info(format string, v ...interface{}) {
	Default.Info(format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	Default.Warn(format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	Default.Error(format, v...)
}

// Configure applies config settings to the default logger
func Configure(level, file string) error {
	return Default.Configure(level, file)
}

// Close closes the default logger
func Close() error {
	return Default.Close()
}
