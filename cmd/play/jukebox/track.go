package jukebox

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Track represents one selected audio file loaded into memory.
type Track struct {
	ID       string    // Unique identifier
	Name     string    // Display fallback (file name including extension)
	Path     string    // Where the track came from (for reference only)
	Data     []byte    // Raw encoded audio, shared, never copied
	Size     int64     // Size in bytes
	LoadedAt time.Time // When the track was selected
}

// NewTrack wraps in-memory audio data. Name defaults to the base of path.
func NewTrack(name, path string, data []byte) *Track {
	if name == "" {
		name = filepath.Base(path)
	}
	return &Track{
		ID:       uuid.New().String(),
		Name:     name,
		Path:     path,
		Data:     data,
		Size:     int64(len(data)),
		LoadedAt: time.Now(),
	}
}

// PlaybackState represents the current state of playback.
type PlaybackState string

const (
	StateEmpty   PlaybackState = "empty"
	StatePaused  PlaybackState = "paused"
	StatePlaying PlaybackState = "playing"
)

// PlaybackInfo is a snapshot of the controller state.
type PlaybackInfo struct {
	State       PlaybackState
	CurrentSong *Track
	Position    time.Duration // Current position in the track
	Duration    time.Duration // Zero when unknown
	QueueLength int           // Number of tracks in the playlist
	QueueIndex  int           // Cursor (-1 if the playlist is empty)
	Shuffle     bool
	Repeat      bool
	Volume      float64
	Generation  uint64 // Incremented on every track load
}
