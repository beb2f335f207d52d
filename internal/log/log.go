// Package log provides category logging for maskedit.
// Logging is off until Init is called, which the CLI does for --debug or
// MASKEDIT_DEBUG. Every entry is also published on a broker so the demo form
// can tail it live.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/maskedit/internal/pubsub"
)

// Level represents log severity.
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

// ParseLevel maps a level name to a Level. Unknown names map to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatMask   Category = "mask"   // pattern compilation
	CatEdit   Category = "edit"   // edit commands and rejections
	CatLocale Category = "locale" // symbol resolution
	CatConfig Category = "config" // configuration loading/saving
	CatUI     Category = "ui"     // UI component updates
	CatCache  Category = "cache"  // cache operations
)

// EnvDebug enables debug logging when set to any non-empty value.
const EnvDebug = "MASKEDIT_DEBUG"

// Logger writes formatted entries and fans them out to subscribers.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// Init opens path for appending and makes it the log destination.
// Returns a cleanup function that closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-chosen debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := newLogger(f)
	l.file = f
	setDefault(l)
	return func() {
		_ = f.Close()
	}, nil
}

// InitWriter logs to w instead of a file. Used by tests and the demo's
// in-memory log pane.
func InitWriter(w io.Writer) {
	setDefault(newLogger(w))
}

// Reset disables logging and closes the broker.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = nil
}

func newLogger(w io.Writer) *Logger {
	return &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

func setDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = l
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(time.Now(), level, cat, msg, fields...)

	if l.writer != nil {
		_, _ = l.writer.Write([]byte(entry))
	}
	if l.broker != nil {
		l.broker.Publish(pubsub.LoggedEvent, entry)
	}
}

// format renders one entry:
// 2025-12-06T10:45:00 [DEBUG] [edit] rejected key=value key2=value2
func format(ts time.Time, level Level, cat Category, msg string, fields ...any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", fields[i], fields[i+1])
	}
	// Odd field count: orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&sb, " %v=<missing>", fields[len(fields)-1])
	}
	sb.WriteByte('\n')
	return sb.String()
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener, or nil when logging is off.
// The listener is cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil || l.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, l.broker)
}
