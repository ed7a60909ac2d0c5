// Package observability defines the logging seam the library reports
// through. Callers plug in their own Logger; the default is a no-op so the
// library stays silent unless asked.
package observability

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Int64(key string, value int64) Field     { return int64Field{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// WriterLogger writes one line per entry to an io.Writer. Level filtering is
// by minimum severity; Debug < Info < Warn < Error.
type WriterLogger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
	fields   []Field
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// NewWriterLogger creates a logger emitting entries at or above min to w.
func NewWriterLogger(w io.Writer, min Level) *WriterLogger {
	return &WriterLogger{w: w, minLevel: min}
}

func (l *WriterLogger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }
func (l *WriterLogger) Info(msg string, fields ...Field)  { l.emit(LevelInfo, msg, fields) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.emit(LevelWarn, msg, fields) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

func (l *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{w: l.w, minLevel: l.minLevel}
	child.fields = append(append([]Field(nil), l.fields...), fields...)
	return child
}

func (l *WriterLogger) emit(level Level, msg string, fields []Field) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %-5s %s", time.Now().Format(time.RFC3339), levelName(level), msg)
	for _, f := range l.fields {
		fmt.Fprintf(l.w, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(l.w, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(l.w)
}

func levelName(l Level) string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "?"
}
