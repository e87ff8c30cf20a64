package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// ParseLevel maps a config string ("debug", "info", ...) to a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	}
	return INFO
}

// Options configures the default logger.
type Options struct {
	Level     string
	RedactPII bool
	// File, when set, receives log lines in addition to stderr and is
	// rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger provides structured JSON logging with optional PII redaction.
type Logger struct {
	level     Level
	mu        sync.Mutex
	redactPII bool
	out       io.Writer
	closer    io.Closer
}

// New returns a logger writing JSON lines to out.
func New(out io.Writer, level Level, redactPII bool) *Logger {
	return &Logger{level: level, redactPII: redactPII, out: out}
}

var defaultLogger = &Logger{level: INFO, redactPII: true, out: os.Stderr}

// Configure replaces the default logger's settings. The returned function
// closes the rotated log file, if any.
func Configure(opts Options) func() error {
	out := io.Writer(os.Stderr)
	var closer io.Closer
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	defaultLogger.mu.Lock()
	defaultLogger.level = ParseLevel(opts.Level)
	defaultLogger.redactPII = opts.RedactPII
	defaultLogger.out = out
	defaultLogger.closer = closer
	defaultLogger.mu.Unlock()

	return func() error {
		if closer == nil {
			return nil
		}
		return closer.Close()
	}
}

// SetOutput redirects the default logger. Used by tests.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defaultLogger.out = w
	defaultLogger.mu.Unlock()
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(l Level) { defaultLogger.level = l }

// SetRedactPII enables or disables PII redaction for the default logger.
func SetRedactPII(r bool) { defaultLogger.redactPII = r }

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...interface{}) { defaultLogger.log(DEBUG, msg, fields...) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...interface{}) { defaultLogger.log(INFO, msg, fields...) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...interface{}) { defaultLogger.log(WARN, msg, fields...) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...interface{}) { defaultLogger.log(ERROR, msg, fields...) }

// Info on a Logger value, for components that carry their own instance.
func (l *Logger) Info(msg string, fields ...interface{}) { l.log(INFO, msg, fields...) }

// Warn on a Logger value.
func (l *Logger) Warn(msg string, fields ...interface{}) { l.log(WARN, msg, fields...) }

// Error on a Logger value.
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(ERROR, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...interface{}) {
	if level < l.level {
		return
	}

	entry := map[string]interface{}{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}

	// Parse key-value pairs from fields
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactPIIValue(key, val)
		}
		entry[key] = val
	}

	data, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(l.out, string(data))
	l.mu.Unlock()
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "email") || strings.Contains(key, "recipient") || key == "to" {
		if strings.Contains(val, "@") {
			return RedactEmail(val)
		}
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
