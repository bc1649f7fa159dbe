// Package log is the structured logger used across v2browse. It wraps
// logrus with the small API the rest of the code uses: leveled methods,
// key/value fields and error-aware helpers.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"v2browse/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logging is the interface components accept so tests can swap loggers.
type Logging interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	With(fields ...Field) *Logger
}

// Logger writes leveled, structured log lines.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	level logrus.Level
	file  *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	}
}

// WithFile appends log lines to the file at path. The TUI uses this so log
// output never lands on the terminal it draws on.
func WithFile(path string) Option {
	return func(l *Logger) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot create log dir: %v\n", err)
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(f)
	}
}

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(l *Logger) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			l.level = lvl
		}
	}
}

// NewLogger creates a logger writing human-readable lines to stdout.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.TraceLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{
		base:  base,
		entry: logrus.NewEntry(base),
		level: logrus.InfoLevel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package-level logger.
func Default() *Logger {
	return logger
}

// SetDebug turns debug output on or off for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With returns a logger that adds fields to every line.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{
		base:  l.base,
		entry: l.entry.WithFields(data),
		level: l.level,
		file:  l.file,
	}
}

// WithContext attaches ctx to subsequent entries.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{
		base:  l.base,
		entry: l.entry.WithContext(ctx),
		level: l.level,
		file:  l.file,
	}
}

func (l *Logger) enabled(level logrus.Level) bool {
	if level == logrus.DebugLevel && isDebug.Load() {
		return true
	}
	return level <= l.level
}

// log emits msg; skip is the runtime.Caller depth of the user call site.
func (l *Logger) log(level logrus.Level, skip int, msg string) {
	if !l.enabled(level) {
		return
	}
	entry := l.entry
	if _, file, line, ok := runtime.Caller(skip); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func (l *Logger) Debug(msg string) { l.log(logrus.DebugLevel, 2, msg) }
func (l *Logger) Info(msg string)  { l.log(logrus.InfoLevel, 2, msg) }
func (l *Logger) Warn(msg string)  { l.log(logrus.WarnLevel, 2, msg) }
func (l *Logger) Error(msg string) { l.log(logrus.ErrorLevel, 2, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(logrus.DebugLevel, 2, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, 2, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, 2, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, 2, fmt.Sprintf(format, args...))
}

// Package-level helpers log through the configured default logger.

func Debug(msg string) { logger.log(logrus.DebugLevel, 2, msg) }
func Info(msg string)  { logger.log(logrus.InfoLevel, 2, msg) }
func Warn(msg string)  { logger.log(logrus.WarnLevel, 2, msg) }
func Error(msg string) { logger.log(logrus.ErrorLevel, 2, msg) }

func Debugf(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, 2, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, 2, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, 2, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, 2, fmt.Sprintf(format, args...))
}

// LogWithFields returns the default logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the default logger with the error and its typed
// details attached.
func LogWithError(err error) *Logger {
	return logger.With(ErrorFields(err)...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).log(logrus.ErrorLevel, 2, msg)
}

// ErrorFields flattens an error into log fields: the message, its kind and
// whatever the typed error knows (path, key, param, status).
func ErrorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}

	var svcErr *errors.ServiceError
	if errors.As(err, &svcErr) {
		fields = append(fields, F("op", svcErr.Op()), F("path", svcErr.Path()))
		if svcErr.Status() != 0 {
			fields = append(fields, F("status", svcErr.Status()))
		}
	}
	var stErr *errors.StorageError
	if errors.As(err, &stErr) && stErr.Key() != "" {
		fields = append(fields, F("key", stErr.Key()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return fields
}
