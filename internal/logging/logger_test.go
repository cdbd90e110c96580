package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []Format{FormatConsole, FormatJSON, ""} {
		t.Run(string(format), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Format = format

			logger, err := NewLogger(cfg)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("Expected non-nil logger")
			}

			// Should not panic
			logger.Info("test info message", zap.String(FieldOrgID, "o1"))
		})
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"

	if _, err := NewLogger(cfg); err == nil {
		t.Fatal("Expected error for invalid log format")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "invalid"

	if _, err := NewLogger(cfg); err == nil {
		t.Fatal("Expected error for invalid log level")
	}
}

func TestNewLogger_LevelEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "warn"

	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"Warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() should fall back to a no-op logger")
	}

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext() did not return the stored logger")
	}
}
