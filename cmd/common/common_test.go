package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir_UsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	want := filepath.Join(home, ".music-player")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
	if got := LogPath(); got != filepath.Join(want, "music-player.log") {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestLogLevel(t *testing.T) {
	if LogLevel(true) != slog.LevelDebug {
		t.Errorf("verbose should log at debug")
	}
	if LogLevel(false) != slog.LevelInfo {
		t.Errorf("default should log at info")
	}
}

func TestSetupFileLogging_WritesToLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	prev := slog.Default()
	defer slog.SetDefault(prev)

	closeLog := SetupFileLogging(true)
	slog.Debug("hello from test", "key", "value")
	closeLog()

	data, err := os.ReadFile(LogPath())
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}
