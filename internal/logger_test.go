package internal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	// WHY: Verifies all documented log level strings map to the correct slog.Level,
	// including the "warn"/"warning" alias and the default fallback for unknown input.
	// "uppercase_not_recognized" documents that the function is case-sensitive.
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "empty_is_info", input: "", want: slog.LevelInfo},
		{name: "warning", input: "warning", want: slog.LevelWarn},
		{name: "warn_alias", input: "warn", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "unknown_defaults_info", input: "trace", want: slog.LevelInfo},
		{name: "uppercase_not_recognized", input: "DEBUG", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_TextLevelFiltering(t *testing.T) {
	// WHY: The stderr handler must honor the configured level; debug lines
	// leaking at info level would flood library callers' logs.
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(LogOptions{Level: "info", Stderr: &buf})
	logger.Debug("hidden", "k", 1)
	logger.Info("shown", "role", "public")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line emitted at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "role=public") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestNewLogger_FileWritesJSON(t *testing.T) {
	// WHY: File logging goes through the rotating writer as JSON; one line must
	// land in the file and parse.
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rsakit.log")
	logger := NewLogger(LogOptions{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	logger.Debug("normalized key", "bits", 2048)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if line["msg"] != "normalized key" {
		t.Errorf("msg = %v, want normalized key", line["msg"])
	}
}
