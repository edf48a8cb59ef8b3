package jukebox

import (
	"github.com/karaniscooked/music-player/cmd/play/metadata"
)

// Instruction tells the display layer what to redraw. The controller never
// touches the display itself.
type Instruction interface {
	instruction()
}

// RenderPlaylist redraws the whole playlist.
type RenderPlaylist struct{ Names []string }

// HighlightRow marks exactly one row active, or none when Index is -1.
type HighlightRow struct{ Index int }

type ShowMetadata struct{ Metadata metadata.Metadata }

type ShowLyrics struct{ Text string }

// ShowPlaying updates the play/pause indicator.
type ShowPlaying struct{ Playing bool }

type ShowProgress struct {
	Percent float64 // 0..100
	Elapsed string
	Total   string
}

type ShowVolume struct{ Volume float64 }

type ShowModes struct{ Shuffle, Repeat bool }

// ShowError surfaces a non-fatal failure, e.g. an undecodable file.
type ShowError struct{ Err error }

func (RenderPlaylist) instruction() {}
func (HighlightRow) instruction()   {}
func (ShowMetadata) instruction()   {}
func (ShowLyrics) instruction()     {}
func (ShowPlaying) instruction()    {}
func (ShowProgress) instruction()   {}
func (ShowVolume) instruction()     {}
func (ShowModes) instruction()      {}
func (ShowError) instruction()      {}

// Load is handed out whenever a track gets loaded. The caller uses it to
// start metadata and lyrics resolution and passes Generation back with the
// results.
type Load struct {
	Generation uint64
	Index      int
	Track      *Track
}

// Update is the result of one controller operation.
type Update struct {
	Instructions []Instruction
	Load         *Load
}

func (u *Update) add(ins ...Instruction) {
	u.Instructions = append(u.Instructions, ins...)
}

// merge appends other's instructions and takes its Load if it has one.
func (u *Update) merge(other Update) {
	u.Instructions = append(u.Instructions, other.Instructions...)
	if other.Load != nil {
		u.Load = other.Load
	}
}

// Empty reports whether the update carries nothing to do.
func (u Update) Empty() bool {
	return len(u.Instructions) == 0 && u.Load == nil
}
