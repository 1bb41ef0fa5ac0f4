package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(100), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestStructuredLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf, InfoLevel)

	logger.Debug("hidden message")
	logger.Info("visible message", Field{Key: "slot", Value: 3})

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Errorf("Debug message emitted below level: %s", output)
	}
	if !strings.Contains(output, "INFO") || !strings.Contains(output, "visible message") {
		t.Errorf("Expected INFO message in output, got: %s", output)
	}
	if !strings.Contains(output, "slot=3") {
		t.Errorf("Expected field in output, got: %s", output)
	}
}

func TestStructuredLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf, ErrorLevel)

	logger.Warn("dropped")
	logger.SetLevel(DebugLevel)
	logger.Debug("kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("Message below level emitted: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("Expected debug message after SetLevel, got: %s", output)
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}

	// Must not panic.
	logger.Debug("a")
	logger.Info("b", Field{Key: "k", Value: "v"})
	logger.Warn("c")
	logger.Error("d")
}

func TestSlogLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger := NewSlogLogger(base)
	logger.Debug("worker created", Field{Key: "slot", Value: 2})
	logger.Error("task panicked", Field{Key: "panic", Value: "boom"})

	output := buf.String()
	if !strings.Contains(output, "worker created") || !strings.Contains(output, "slot=2") {
		t.Errorf("Expected debug record with field, got: %s", output)
	}
	if !strings.Contains(output, "task panicked") {
		t.Errorf("Expected error record, got: %s", output)
	}
}

func TestSlogLogger_NilFallsBackToDefault(t *testing.T) {
	if NewSlogLogger(nil) == nil {
		t.Fatal("NewSlogLogger(nil) returned nil")
	}
}
