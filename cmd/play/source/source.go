// Package source turns command line paths (files, directories, archives)
// into playlist tracks.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/mholt/archives"
	"github.com/samber/lo"
)

// ErrNoTracks is returned when none of the given paths held playable audio.
var ErrNoTracks = errors.New("no playable audio files found")

var archiveSuffixes = []string{
	".zip", ".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar.zst", ".tar.lz4", ".tar.br", ".7z", ".rar",
}

// IsArchive reports whether name looks like an archive we can read tracks
// from.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	return lo.ContainsBy(archiveSuffixes, func(s string) bool { return strings.HasSuffix(lower, s) })
}

// Collect reads every playable file under paths, in argument order.
// Directories are walked recursively in lexical order. Paths that fail are
// skipped and their errors joined into the returned error; the tracks that
// did load are still returned.
func Collect(ctx context.Context, paths []string) ([]*jukebox.Track, error) {
	var tracks []*jukebox.Track
	var errs []error

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return tracks, err
		}
		found, err := collectPath(ctx, p)
		if err != nil {
			errs = append(errs, err)
		}
		tracks = append(tracks, found...)
	}

	tracks = lo.UniqBy(tracks, func(t *jukebox.Track) string { return t.Path })
	slog.Debug("collected tracks", "paths", len(paths), "tracks", len(tracks))
	return tracks, errors.Join(errs...)
}

func collectPath(ctx context.Context, p string) ([]*jukebox.Track, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", p, err)
	}

	switch {
	case info.IsDir():
		return collectDir(ctx, p)
	case jukebox.IsSupported(p):
		track, err := readFile(p)
		if err != nil {
			return nil, err
		}
		return []*jukebox.Track{track}, nil
	case IsArchive(p):
		return collectArchive(ctx, p)
	default:
		slog.Debug("skipping unsupported file", "path", p)
		return nil, nil
	}
}

func collectDir(ctx context.Context, dir string) ([]*jukebox.Track, error) {
	var tracks []*jukebox.Track
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("cannot read path", "path", p, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !jukebox.IsSupported(p) {
			return nil
		}
		track, err := readFile(p)
		if err != nil {
			slog.Warn("cannot read track", "path", p, "error", err)
			return nil
		}
		tracks = append(tracks, track)
		return nil
	})
	if err != nil {
		return tracks, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return tracks, nil
}

func readFile(p string) (*jukebox.Track, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", p, err)
	}
	return jukebox.NewTrack(filepath.Base(p), p, data), nil
}

func collectArchive(ctx context.Context, p string) ([]*jukebox.Track, error) {
	archiveFile, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive: %w", err)
	}
	defer archiveFile.Close()

	format, reader, err := archives.Identify(ctx, p, archiveFile)
	if err != nil {
		return nil, fmt.Errorf("cannot identify archive format of %s: %w", p, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("%s: format does not support extraction", p)
	}

	// Zip and 7z need to seek in the original file
	var archiveReader io.Reader = reader
	switch format.(type) {
	case archives.Zip, archives.SevenZip:
		if _, err := archiveFile.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		archiveReader = archiveFile
	}

	var tracks []*jukebox.Track
	err = extractor.Extract(ctx, archiveReader, func(ctx context.Context, f archives.FileInfo) error {
		if f.IsDir() || !jukebox.IsSupported(f.NameInArchive) {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.NameInArchive, err)
		}
		tracks = append(tracks, jukebox.NewTrack(path.Base(f.NameInArchive), p+"#"+f.NameInArchive, data))
		return nil
	})
	if err != nil {
		return tracks, fmt.Errorf("extracting %s: %w", p, err)
	}
	return tracks, nil
}
