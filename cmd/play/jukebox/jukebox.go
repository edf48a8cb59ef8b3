// Package jukebox owns the playlist, the playback state and the single media
// element. Operations return an Update describing what the display should
// redraw instead of drawing anything themselves.
package jukebox

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/karaniscooked/music-player/cmd/play/lyrics"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
)

// LyricsPlaceholder is shown while lyrics are being fetched.
const LyricsPlaceholder = lyrics.FetchingText

// Jukebox is the playback controller.
type Jukebox struct {
	mu sync.Mutex

	playlist *Playlist
	media    Media

	// Playback state
	state   PlaybackState
	shuffle bool
	repeat  bool
	volume  float64

	// Incremented each time a track is loaded. Async results (tags, lyrics,
	// end-of-track callbacks) carry the generation they were started for and
	// are dropped once it is stale.
	generation uint64

	intn    func(n int) int
	onEnded func(generation uint64)
	log     *slog.Logger
}

type Option func(*Jukebox)

// WithRandom replaces the shuffle source. intn must return a value in [0,n).
func WithRandom(intn func(n int) int) Option {
	return func(j *Jukebox) { j.intn = intn }
}

func WithLogger(log *slog.Logger) Option {
	return func(j *Jukebox) { j.log = log }
}

// New creates a controller around a media element.
func New(media Media, opts ...Option) *Jukebox {
	j := &Jukebox{
		playlist: NewPlaylist(),
		media:    media,
		state:    StateEmpty,
		volume:   1,
		intn:     rand.IntN,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// SetEndedHandler routes end-of-track notifications to fn instead of
// handling them in place. The handler is expected to call Ended with the
// generation it was given, typically from an event loop.
func (j *Jukebox) SetEndedHandler(fn func(generation uint64)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onEnded = fn
}

// trackEnded is what the media element calls back.
func (j *Jukebox) trackEnded(generation uint64) {
	j.mu.Lock()
	handler := j.onEnded
	j.mu.Unlock()

	if handler != nil {
		handler(generation)
		return
	}
	j.Ended(generation)
}

// Replace discards the playlist, shows the new one and starts the first
// track if there is one.
func (j *Jukebox) Replace(tracks []*Track) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.media.Stop()
	j.playlist.Replace(tracks)
	j.log.Info("playlist replaced", "tracks", j.playlist.Len())

	var u Update
	u.add(RenderPlaylist{Names: j.playlist.Names()})

	if j.playlist.Len() == 0 {
		j.generation++ // invalidate anything still in flight
		j.state = StateEmpty
		u.add(HighlightRow{Index: -1}, ShowPlaying{Playing: false}, ShowProgress{Elapsed: Format(0), Total: Format(0)})
		return u
	}

	u.merge(j.loadLocked(0))
	return u
}

// LoadSong selects and starts the track at index. Out of range is a no-op.
func (j *Jukebox) LoadSong(index int) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.playlist.JumpTo(index); err != nil {
		return Update{}
	}
	return j.loadLocked(index)
}

// JumpTo is LoadSong for an explicit user selection (a playlist row).
func (j *Jukebox) JumpTo(index int) Update {
	return j.LoadSong(index)
}

// loadLocked binds the media element to the track at index, emits the
// defaults and starts playback. Must be called with the lock held and the
// cursor already on index.
func (j *Jukebox) loadLocked(index int) Update {
	track := j.playlist.Track(index)
	if track == nil {
		return Update{}
	}

	j.generation++
	generation := j.generation
	load := &Load{Generation: generation, Index: index, Track: track}

	var u Update
	u.Load = load
	u.add(
		ShowMetadata{Metadata: metadata.Defaults(track.Name)},
		ShowLyrics{Text: LyricsPlaceholder},
		HighlightRow{Index: index},
		ShowProgress{Elapsed: Format(0), Total: Format(0)},
	)

	if err := j.media.Load(track, func() { j.trackEnded(generation) }); err != nil {
		j.log.Warn("failed to load track", "track", track.Name, "error", err)
		j.state = StatePaused
		u.add(ShowError{Err: fmt.Errorf("loading %s: %w", track.Name, err)}, ShowPlaying{Playing: false})
		return u
	}

	j.media.SetVolume(j.volume)
	if err := j.media.Play(); err != nil {
		j.log.Warn("failed to start playback", "track", track.Name, "error", err)
		j.state = StatePaused
		u.add(ShowError{Err: fmt.Errorf("playing %s: %w", track.Name, err)}, ShowPlaying{Playing: false})
		return u
	}

	j.log.Debug("track loaded", "track", track.Name, "index", index, "generation", generation)
	j.state = StatePlaying
	u.add(ShowPlaying{Playing: true})
	return u
}

// ApplyMetadata shows resolved metadata if it belongs to the current load.
func (j *Jukebox) ApplyMetadata(generation uint64, md metadata.Metadata) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.currentLocked(generation) {
		j.log.Debug("dropping stale metadata", "generation", generation, "current", j.generation)
		return Update{}
	}
	var u Update
	u.add(ShowMetadata{Metadata: md})
	return u
}

// ApplyLyrics shows resolved lyrics if they belong to the current load.
func (j *Jukebox) ApplyLyrics(generation uint64, text string) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.currentLocked(generation) {
		j.log.Debug("dropping stale lyrics", "generation", generation, "current", j.generation)
		return Update{}
	}
	var u Update
	u.add(ShowLyrics{Text: text})
	return u
}

// IsCurrent reports whether generation is the active load.
func (j *Jukebox) IsCurrent(generation uint64) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.currentLocked(generation)
}

func (j *Jukebox) currentLocked(generation uint64) bool {
	return j.state != StateEmpty && generation == j.generation
}

// Playlist returns the track list.
func (j *Jukebox) Playlist() []*Track {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.playlist.Tracks()
}

// Tap exposes the media element's sample tap for the visualizer.
func (j *Jukebox) Tap() *Tap {
	return j.media.Tap()
}
