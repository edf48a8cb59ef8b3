package common

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LogPath returns the path to the player log file
func LogPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, AppName+".log")
}

// LogLevel maps the --verbose flag to a slog level.
func LogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SetupStderrLogging points the default slog logger at stderr.
func SetupStderrLogging(verbose bool) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: LogLevel(verbose),
	})
	slog.SetDefault(slog.New(handler))
}

// SetupFileLogging points the default slog logger at ~/.music-player/music-player.log.
// Used by full screen commands that own the terminal. The returned func closes
// the file; it is never nil.
func SetupFileLogging(verbose bool) func() {
	logPath := LogPath()
	if logPath == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: LogLevel(verbose),
	})
	slog.SetDefault(slog.New(handler))
	return func() { _ = logFile.Close() }
}
