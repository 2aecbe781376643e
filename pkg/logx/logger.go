package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Logger writes structured entries. A Logger is safe for concurrent use and is
// meant to be built once and passed to the components that need it.
type Logger struct {
	config    *Config
	formatter Formatter
	base      Fields
	mu        *sync.Mutex
	writer    io.Writer
	exitFunc  func(int)
	now       func() time.Time
}

func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	var formatter Formatter
	switch config.Format {
	case FormatJSON:
		formatter = &JSONFormatter{config: config}
	case FormatCloudWatch:
		formatter = &JSONFormatter{config: config, cloudWatch: true}
	default:
		formatter = &ConsoleFormatter{config: config}
	}

	writer := config.Output
	if writer == nil {
		writer = os.Stdout
	}

	return &Logger{
		config:    config,
		formatter: formatter,
		mu:        &sync.Mutex{},
		writer:    writer,
		exitFunc:  os.Exit,
		now:       time.Now,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(&Config{Level: LevelOff, Format: FormatJSON, Output: io.Discard})
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	child := *l
	child.base = make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		child.base[k] = v
	}
	for k, v := range fields {
		child.base[k] = v
	}
	return &child
}

// Named tags every entry with a component name.
func (l *Logger) Named(component string) *Logger {
	return l.With(Fields{"component": component})
}

func (l *Logger) Level() Level {
	return l.config.Level
}

func (l *Logger) log(level Level, msg string, fields Fields, data any, err error) {
	if !l.config.Level.Enabled(level) {
		return
	}

	merged := fields
	if len(l.base) > 0 {
		merged = make(Fields, len(l.base)+len(fields))
		for k, v := range l.base {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
	}

	entry := &LogEntry{
		Level:     level,
		Message:   msg,
		Fields:    merged,
		Data:      data,
		Error:     err,
		Timestamp: l.now(),
	}
	if l.config.EnableCaller {
		entry.Caller = caller(3)
	}

	formatted, formatErr := l.formatter.Format(entry)
	if formatErr != nil {
		fmt.Fprintf(os.Stderr, "logx: format: %v\n", formatErr)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, writeErr := l.writer.Write(formatted); writeErr != nil {
		fmt.Fprintf(os.Stderr, "logx: write: %v\n", writeErr)
	}
}

func (l *Logger) WithField(key string, value any) *Entry {
	return newEntry(l).WithField(key, value)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return newEntry(l).WithFields(fields)
}

func (l *Logger) WithError(err error) *Entry {
	return newEntry(l).WithError(err)
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg, nil, nil, nil) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg, nil, nil, nil) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg, nil, nil, nil) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg, nil, nil, nil) }

func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil, nil, nil)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, fmt.Sprintf(format, args...), nil, nil, nil)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, fmt.Sprintf(format, args...), nil, nil, nil)
}

// Fatal logs and exits with status 1.
func (l *Logger) Fatal(msg string) {
	l.log(LevelFatal, msg, nil, nil, nil)
	l.exitFunc(1)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.Fatal(fmt.Sprintf(format, args...))
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
