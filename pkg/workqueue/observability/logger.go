// Package observability provides the diagnostic collaborators for the work
// queue engine: a leveled, field-tagged logger contract with several
// implementations, and Kubernetes-style health checking.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Field is one key/value attachment to a log message.
type Field struct {
	Key   string
	Value any
}

// Logger is the queue's diagnostic sink. It is purely observational and
// never required for correctness.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// LogLevel controls which messages a StructuredLogger emits.
type LogLevel int32

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// NoOpLogger discards all messages.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...Field) {}
func (NoOpLogger) Info(string, ...Field)  {}
func (NoOpLogger) Warn(string, ...Field)  {}
func (NoOpLogger) Error(string, ...Field) {}

// StructuredLogger writes timestamped, leveled lines to a writer.
type StructuredLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level atomic.Int32
}

// NewLogger creates a logger writing to out at the given level.
func NewLogger(out io.Writer, level LogLevel) *StructuredLogger {
	l := &StructuredLogger{out: out}
	l.level.Store(int32(level))
	return l
}

// NewDefaultLogger creates a stderr logger at info level.
func NewDefaultLogger() *StructuredLogger {
	return NewLogger(os.Stderr, InfoLevel)
}

// SetLevel changes the minimum emitted level.
func (l *StructuredLogger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

func (l *StructuredLogger) log(level LogLevel, msg string, fields []Field) {
	if int32(level) < l.level.Load() {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}

func (l *StructuredLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *StructuredLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *StructuredLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *StructuredLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; nil falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func slogArgs(fields []Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}

func (l *SlogLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, slogArgs(fields)...) }
func (l *SlogLogger) Info(msg string, fields ...Field)  { l.logger.Info(msg, slogArgs(fields)...) }
func (l *SlogLogger) Warn(msg string, fields ...Field)  { l.logger.Warn(msg, slogArgs(fields)...) }
func (l *SlogLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, slogArgs(fields)...) }
