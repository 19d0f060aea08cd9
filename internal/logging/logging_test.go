package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", name, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelWarn, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "op", "products")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info line filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "op=products") {
		t.Errorf("Expected warn line with attrs, got %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := OpenFile(slog.LevelInfo, path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	logger.Info("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Expected log line in file, got %q", string(data))
	}
}
