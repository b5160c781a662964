// Package logging provides run-scoped debug logging for harness
// components. All components of one run append to the same file under
// ~/.skillcheck/logs/, named by the run ID, so a failed CI run leaves
// a single trace to collect.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level filters which entries reach the log file.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

var (
	runID     string
	runIDOnce sync.Once
)

// RunID returns the identifier shared by all loggers of this process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// Logger writes component-prefixed entries for one harness run.
type Logger struct {
	component string
	minLevel  Level
	logger    *log.Logger
	file      *os.File
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

// New creates a logger for a component, writing to the shared run log
// file. If the log directory or file cannot be created the logger
// falls back to stderr and reports the error so callers can warn.
func New(component string, minLevel Level) (*Logger, error) {
	dir, err := logDir()
	if err != nil {
		return fallback(component, minLevel, err), err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-skillcheck.log", RunID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fallback(component, minLevel, fmt.Errorf("failed to open log file: %w", err)), err
	}

	return &Logger{
		component: component,
		minLevel:  minLevel,
		logger:    log.New(file, "", 0),
		file:      file,
		logPath:   path,
	}, nil
}

func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".skillcheck", "logs")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

func fallback(component string, minLevel Level, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: file logging unavailable, using stderr: %v", err)
	return &Logger{component: component, minLevel: minLevel, logger: logger}
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write(LevelDebug, format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.write(LevelInfo, format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write(LevelWarn, format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write(LevelError, format, v...) }

// LogPath returns the path of the log file, empty in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
