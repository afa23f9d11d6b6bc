package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" error ", slog.LevelError},
		{"warn", slog.LevelWarn},
		{"", slog.LevelWarn},
		{"chatty", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true, "error").Debug("Fetched cost page", "page", 1)
	if !strings.Contains(buf.String(), "Fetched cost page") || !strings.Contains(buf.String(), "page=1") {
		t.Fatalf("expected debug record, got %q", buf.String())
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "")
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
