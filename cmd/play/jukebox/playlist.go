package jukebox

import (
	"github.com/samber/lo"
)

// Direction for Playlist.Advance.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Playlist is an ordered list of tracks plus a cursor. The cursor is valid
// whenever the list is non-empty and -1 otherwise. Playlist is not safe for
// concurrent use; the Jukebox guards it.
type Playlist struct {
	tracks []*Track
	cursor int
}

func NewPlaylist() *Playlist {
	return &Playlist{cursor: -1}
}

// Replace discards the current list and moves the cursor to the first track.
func (p *Playlist) Replace(tracks []*Track) {
	p.tracks = lo.Filter(tracks, func(t *Track, _ int) bool { return t != nil })
	if len(p.tracks) == 0 {
		p.cursor = -1
		return
	}
	p.cursor = 0
}

// Advance moves the cursor one step with wraparound. It reports false and
// does nothing when the playlist is empty.
func (p *Playlist) Advance(dir Direction) bool {
	n := len(p.tracks)
	if n == 0 {
		return false
	}
	switch dir {
	case Prev:
		p.cursor = (p.cursor - 1 + n) % n
	default:
		p.cursor = (p.cursor + 1) % n
	}
	return true
}

// JumpTo selects a track explicitly.
func (p *Playlist) JumpTo(index int) error {
	if len(p.tracks) == 0 {
		return ErrQueueEmpty
	}
	if index < 0 || index >= len(p.tracks) {
		return ErrIndexOutOfRange
	}
	p.cursor = index
	return nil
}

func (p *Playlist) Cursor() int { return p.cursor }

func (p *Playlist) Len() int { return len(p.tracks) }

// Track returns the track at index, or nil when out of range.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return p.tracks[index]
}

// Current returns the track under the cursor, or nil.
func (p *Playlist) Current() *Track {
	return p.Track(p.cursor)
}

// Tracks returns a copy of the track list.
func (p *Playlist) Tracks() []*Track {
	out := make([]*Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Names returns the display names in playlist order.
func (p *Playlist) Names() []string {
	return lo.Map(p.tracks, func(t *Track, _ int) string { return t.Name })
}
