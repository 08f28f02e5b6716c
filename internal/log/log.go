// Package log provides structured logging for Scrivo.
// Logging writes to a file (stdout belongs to the TUI) with structured
// fields (level, category, timestamp) and fans entries out on a pub/sub
// broker so interested components can tail them.
package log

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dtannen/scrivo/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Category groups related log messages.
type Category string

const (
	CatEngine  Category = "engine"  // Scan cycles and reconciliation
	CatSched   Category = "sched"   // Debounce/throttle scheduling
	CatRender  Category = "render"  // Region create/activate/destroy
	CatUI      Category = "ui"      // Editor and app model updates
	CatConfig  Category = "config"  // Configuration loading/saving
	CatDB      Category = "db"      // SQLite session store
	CatSession Category = "session" // Writing-session accounting
	CatWatcher Category = "watcher" // Document file watcher events
	CatCache   Category = "cache"   // Scan cache operations
	CatTrace   Category = "trace"   // Tracing provider lifecycle
)

// Logger writes formatted entries to its file and publishes them on a
// broker. All access goes through the package-level functions.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the global logger writing to path.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	var initErr error
	once.Do(func() {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
		if err != nil {
			initErr = err
			return
		}
		defaultLogger = &Logger{
			file:     f,
			enabled:  true,
			minLevel: LevelDebug,
			broker:   pubsub.NewBroker[string](),
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return func() {
		if defaultLogger != nil && defaultLogger.file != nil {
			_ = defaultLogger.file.Close()
		}
	}, nil
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.enabled = enabled
	defaultLogger.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.minLevel = level
	defaultLogger.mu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	emit(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	emit(LevelInfo, cat, msg, fields)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	emit(LevelWarn, cat, msg, fields)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	emit(LevelError, cat, msg, fields)
}

// ErrorErr logs an error with the error value appended as a field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	emit(LevelError, cat, msg, append(fields, "error", value))
}

// formatEntry renders one line:
//
//	2026-08-30T10:45:00 [DEBUG] [engine] message key=value
//
// Fields come in key, value pairs; a dangling key gets <missing>.
func formatEntry(level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s",
		time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

func emit(level Level, cat Category, msg string, fields []any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	entry := formatEntry(level, cat, msg, fields)
	if l.file != nil {
		_, _ = l.file.WriteString(entry)
	}
	if l.broker != nil {
		l.broker.Publish(pubsub.LogEntryEvent, entry)
	}
}

// LogEvent is a pubsub event containing a formatted log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a listener for log entries, cleaned up when ctx
// is cancelled. Returns nil before Init.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker)
}
