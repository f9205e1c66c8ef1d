package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogFormat selects how entries are serialized.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output is a log destination.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry is a single log record.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LoggerInterface is the logging surface used by the rest of the module.
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
	SetLevel(level LogLevel)
	AddOutput(output Output)
	Close() error
}

// LoggerOptions configures NewLogger.
type LoggerOptions struct {
	Level   string
	File    string
	Format  LogFormat
	Console bool
}

// Logger writes leveled entries to every registered output.
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
	fields  map[string]interface{}
	now     func() time.Time
}

// NewLogger creates a logger. The log file's directory is created when missing.
// With neither a file nor console output the logger discards everything.
func NewLogger(opts LoggerOptions) (*Logger, error) {
	l := &Logger{
		level:  ParseLogLevel(opts.Level),
		fields: make(map[string]interface{}),
		now:    time.Now,
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	if opts.Console {
		l.AddOutput(NewConsoleOutput(os.Stderr, format))
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		out, err := NewFileOutput(opts.File, format)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		l.AddOutput(out)
	}
	return l, nil
}

// ParseLogLevel maps a level name to a LogLevel. Unknown names mean info.
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
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

func (level LogLevel) String() string {
	switch level {
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

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level || len(l.outputs) == 0 {
		return
	}

	entry := LogEntry{
		Timestamp: l.now(),
		Level:     level.String(),
		Message:   msg,
	}
	if len(l.fields)+len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(l.fields)+len(fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	for _, out := range l.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// With returns a child logger sharing the outputs and carrying extra fields.
func (l *Logger) With(fields ...Field) LoggerInterface {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{
		level:   l.level,
		outputs: l.outputs,
		fields:  merged,
		now:     l.now,
	}
}

// SetLevel sets the minimum level written.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// AddOutput registers another destination.
func (l *Logger) AddOutput(output Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, output)
}

// Close closes every output and returns the first error.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	for _, out := range l.outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.outputs = nil
	return first
}

// sortedFields renders fields as key=value pairs in key order.
func sortedFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
