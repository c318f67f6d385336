package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{JSON: true, Output: &buf})

	l.Info("graph served", "topic", "go")
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug to be filtered at info level, got %q", buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "graph served" || entry["topic"] != "go" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestConsoleLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Debug: true, Output: &buf})

	l.Debug("visible", "k", "v")

	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
