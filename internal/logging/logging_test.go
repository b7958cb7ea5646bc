package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel)

	log.Info("service", "lulc stats computed", Fields{"year": 2024, "pixels": 4})
	log.Error("httpapi", "request failed", errors.New("boom"), nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}

	first := lines[0]
	if first["level"] != "info" || first["component"] != "service" || first["message"] != "lulc stats computed" {
		t.Errorf("first line: got %v", first)
	}
	if first["year"] != float64(2024) {
		t.Errorf("year field: got %v", first["year"])
	}
	if _, ok := first["time"]; !ok {
		t.Error("missing timestamp")
	}

	if lines[1]["error"] != "boom" || lines[1]["level"] != "error" {
		t.Errorf("error line: got %v", lines[1])
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Debug("x", "hidden", nil)
	log.Info("x", "hidden", nil)
	log.Warn("x", "shown", nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Errorf("got %v, want only the warning", lines)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel).With(Fields{"request_id": "abc"})

	log.Info("httpapi", "handled", nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["request_id"] != "abc" {
		t.Errorf("got %v, want request_id field", lines)
	}
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewFromConfig(&buf, "debug", "console")
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	log.Debug("cmd", "starting", Fields{"mode": "stdio"})

	out := buf.String()
	if !strings.Contains(out, "starting") || !strings.Contains(out, "mode=stdio") {
		t.Errorf("console output: got %q", out)
	}

	if _, err := NewFromConfig(&buf, "trace", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
