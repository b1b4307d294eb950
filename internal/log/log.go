// Package log is the optional debug log. It is off unless Init is called
// with a path, and never writes to the console streams.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is the severity of a log entry.
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

// ParseLevel maps a level name onto a Level. Unknown names fall back to
// LevelDebug with ok=false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelDebug, false
	}
}

// Category groups related log messages.
type Category string

const (
	CatConfig  Category = "config"
	CatProbe   Category = "probe"
	CatResolve Category = "resolve"
	CatKill    Category = "kill"
	CatUI      Category = "ui"
)

type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel Level
}

var (
	mu            sync.Mutex
	defaultLogger *Logger
)

// Init opens path for appending and makes it the log destination.
// tea.LogToFile also points the standard library logger at the file, so the
// returned cleanup detaches it before closing.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "killport")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	SetOutput(f)
	return func() {
		SetOutput(nil)
		stdlog.SetOutput(io.Discard)
		_ = f.Close()
	}, nil
}

// SetOutput redirects the log to w; nil disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		defaultLogger = nil
		return
	}
	defaultLogger = &Logger{writer: w, minLevel: LevelDebug}
}

// SetMinLevel drops entries below level. It has no effect while logging is
// disabled.
func SetMinLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil {
		defaultLogger.minLevel = level
	}
}

func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil || level < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 2025-12-06T10:45:00 [ERROR] [kill] message key=value
	entry := fmt.Sprintf("%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	_, _ = io.WriteString(l.writer, entry+"\n")
}
