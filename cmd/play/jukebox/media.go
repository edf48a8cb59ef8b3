package jukebox

import (
	"errors"
	"time"
)

var (
	ErrQueueEmpty        = errors.New("queue is empty")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNothingLoaded     = errors.New("no track loaded")
	ErrUnsupportedFormat = errors.New("unsupported audio format: must be MP3 or WAV")
)

// Media is the single playback element. Load binds a track and leaves it
// paused at position 0; onEnded fires (on any goroutine) when the track
// plays to its end.
type Media interface {
	Load(track *Track, onEnded func()) error
	Play() error
	Pause()
	Paused() bool
	Position() time.Duration
	Duration() time.Duration // zero while unknown
	Seek(d time.Duration) error
	SetVolume(v float64)
	Volume() float64
	Stop()
	Tap() *Tap
}

var _ Media = (*Player)(nil)
