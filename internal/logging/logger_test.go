package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"chatty", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json", false)
	log.Debug("hidden")
	log.Info("sheet processed", zap.String("sheet", "Data"), zap.Int("rows", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["msg"] != "sheet processed" || entry["sheet"] != "Data" || entry["rows"] != float64(3) {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "error", "console", true)
	log.Debug("workbook loaded")
	if !strings.Contains(buf.String(), "workbook loaded") {
		t.Errorf("verbose should enable debug output, got %q", buf.String())
	}
}
