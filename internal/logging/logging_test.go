package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManagerLevels(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		hidden  slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tc := range cases {
		mgr, logger := NewManager(Config{Level: tc.level}, &bytes.Buffer{})
		if !logger.Enabled(context.Background(), tc.enabled) {
			t.Errorf("%s: expected %v enabled", tc.level, tc.enabled)
		}
		if logger.Enabled(context.Background(), tc.hidden) {
			t.Errorf("%s: expected %v disabled", tc.level, tc.hidden)
		}
		mgr.Close() //nolint:errcheck
	}
}

func TestNewManagerFormats(t *testing.T) {
	var buf bytes.Buffer
	mgr, logger := NewManager(Config{Level: "info", Format: "json"}, &buf)
	defer mgr.Close() //nolint:errcheck

	logger.Info("hello", slog.String("term", "Radiohead"))
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"term":"Radiohead"`) {
		t.Errorf("expected JSON record, got %q", buf.String())
	}

	buf.Reset()
	_, textLogger := NewManager(Config{Level: "info", Format: "text"}, &buf)
	textLogger.Info("hello", slog.String("term", "Radiohead"))
	if !strings.Contains(buf.String(), "term=Radiohead") {
		t.Errorf("expected text record, got %q", buf.String())
	}
}

func TestManagerFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "geniuslookup.log")

	var buf bytes.Buffer
	mgr, logger := NewManager(Config{Level: "info", Format: "json", FilePath: logFile}, &buf)
	logger.Info("to file")
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected record in file, got %q", data)
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("expected record on writer too, got %q", buf.String())
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if got := mgr.Config().FilePath; got != logFile {
		t.Errorf("expected Config to report %s, got %s", logFile, got)
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if !ValidLevel(s) {
			t.Errorf("expected %q valid", s)
		}
	}
	if ValidLevel("trace") {
		t.Error("expected trace invalid")
	}
	if !ValidFormat("json") || !ValidFormat("text") || ValidFormat("xml") {
		t.Error("unexpected format validation")
	}
}

func TestConfigString(t *testing.T) {
	got := Config{Level: "info", Format: "text"}.String()
	if got != "level=info format=text" {
		t.Errorf("unexpected %q", got)
	}

	got = Config{Level: "info", Format: "text", FilePath: "/tmp/x.log", FileMaxSizeMB: 5, FileMaxFiles: 2, FileMaxAgeDays: 7}.String()
	if got != "level=info format=text file=/tmp/x.log max_size=5MB max_files=2 max_age=7d" {
		t.Errorf("unexpected %q", got)
	}
}
