package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/samber/lo"
)

// DefaultDebounce groups bursts of file events (a copy in progress, a
// directory being moved) into one rescan.
const DefaultDebounce = 500 * time.Millisecond

// Watch rescans paths whenever something under them changes and hands the
// fresh track list to onChange. It blocks until ctx is cancelled.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func([]*jukebox.Track, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(paths) {
		if err := watcher.Add(dir); err != nil {
			slog.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New subdirectories need their own watch
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			slog.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)

		case <-timer.C:
			tracks, err := Collect(ctx, paths)
			onChange(tracks, err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if jukebox.IsSupported(event.Name) || IsArchive(event.Name) {
		return true
	}
	// Directories have no extension; removal of one may drop tracks
	return filepath.Ext(event.Name) == ""
}

// watchDirs lists every directory to watch: directory arguments with all
// their subdirectories, and the parent of each file argument.
func watchDirs(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			dirs = append(dirs, filepath.Dir(p))
			continue
		}
		_ = filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				dirs = append(dirs, sub)
			}
			return nil
		})
	}
	return lo.Uniq(dirs)
}
