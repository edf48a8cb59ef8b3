package play

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/karaniscooked/music-player/cmd/common/config"
	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/karaniscooked/music-player/cmd/play/lyrics"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
	"github.com/karaniscooked/music-player/cmd/play/visualizer"
)

// stubMedia is a silent media element with a fixed duration.
type stubMedia struct {
	mu       sync.Mutex
	loaded   bool
	paused   bool
	position time.Duration
	duration time.Duration
	volume   float64
	tap      *jukebox.Tap
}

func newStubMedia() *stubMedia {
	return &stubMedia{paused: true, duration: 200 * time.Second, volume: 1, tap: jukebox.NewTap(256)}
}

func (s *stubMedia) Load(*jukebox.Track, func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded, s.paused, s.position = true, true, 0
	return nil
}

func (s *stubMedia) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

func (s *stubMedia) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

func (s *stubMedia) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *stubMedia) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *stubMedia) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0
	}
	return s.duration
}

func (s *stubMedia) Seek(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = d
	return nil
}

func (s *stubMedia) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

func (s *stubMedia) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *stubMedia) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded, s.paused, s.position = false, true, 0
}

func (s *stubMedia) Tap() *jukebox.Tap { return s.tap }

type stubMetadata struct{ md metadata.Metadata }

func (s stubMetadata) Resolve(context.Context, string, io.ReadSeeker) (metadata.Metadata, error) {
	return s.md, nil
}

type stubLyrics struct {
	mu     sync.Mutex
	artist string
	title  string
}

func (s *stubLyrics) Resolve(_ context.Context, artist, title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artist, s.title = artist, title
	return "la la la"
}

type stubNotifier struct{ titles []string }

func (s *stubNotifier) Notify(title, body string) error {
	s.titles = append(s.titles, title)
	return nil
}

func tracks(names ...string) []*jukebox.Track {
	out := make([]*jukebox.Track, len(names))
	for i, n := range names {
		out[i] = jukebox.NewTrack(n, "", []byte(n))
	}
	return out
}

func newTestModel(t *testing.T, d deps, names ...string) (model, *stubMedia, tea.Cmd) {
	t.Helper()
	media := newStubMedia()
	jb := jukebox.New(media)
	m := newModel(context.Background(), jb, d, settings{artist: "Adele"})
	m, cmd := m.apply(jb.Replace(tracks(names...)))
	return m, media, cmd
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApplyInitialLoad(t *testing.T) {
	m, _, cmd := newTestModel(t, deps{}, "a.mp3", "b.mp3")

	if len(m.names) != 2 || m.active != 0 {
		t.Fatalf("names %v active %d", m.names, m.active)
	}
	if m.md.Title != "a.mp3" || m.md.Artist != metadata.UnknownArtist {
		t.Errorf("metadata = %+v", m.md)
	}
	if m.lyrics != jukebox.LyricsPlaceholder {
		t.Errorf("lyrics = %q", m.lyrics)
	}
	if !m.playing {
		t.Error("expected playing")
	}
	if m.cover == "" {
		t.Error("placeholder cover should render")
	}
	if cmd != nil {
		t.Error("no resolvers configured, expected no commands")
	}
}

func TestResolversRunForLoad(t *testing.T) {
	lyr := &stubLyrics{}
	d := deps{
		metadata: stubMetadata{md: metadata.Metadata{Title: "Hello", Artist: "Adele", CoverURL: metadata.DefaultCoverURL()}},
		lyrics:   lyr,
	}
	media := newStubMedia()
	jb := jukebox.New(media)
	m := newModel(context.Background(), jb, d, settings{artist: "Adele"})
	u := jb.Replace(tracks("hello.mp3"))

	mdCmd := resolveMetadataCmd(m.ctx, d.metadata, *u.Load)
	lyrCmd := resolveLyricsCmd(m.ctx, d.lyrics, m.opts.artist, *u.Load)
	m, _ = m.apply(u)

	m, _ = update(t, m, mdCmd())
	if m.md.Title != "Hello" || m.md.Artist != "Adele" {
		t.Errorf("metadata = %+v", m.md)
	}

	m, _ = update(t, m, lyrCmd())
	if m.lyrics != "la la la" {
		t.Errorf("lyrics = %q", m.lyrics)
	}
	if lyr.artist != "Adele" || lyr.title != "hello.mp3" {
		t.Errorf("lyrics lookup for %q / %q", lyr.artist, lyr.title)
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	media := newStubMedia()
	jb := jukebox.New(media)
	m := newModel(context.Background(), jb, deps{}, settings{})
	first := jb.Replace(tracks("a.mp3", "b.mp3"))
	m, _ = m.apply(first)
	m, _ = update(t, m, key("n"))

	m, _ = update(t, m, metadataMsg{generation: first.Load.Generation, md: metadata.Metadata{Title: "old"}})
	if m.md.Title != "b.mp3" {
		t.Errorf("stale metadata applied: %+v", m.md)
	}
	m, _ = update(t, m, lyricsMsg{generation: first.Load.Generation, text: "old"})
	if m.lyrics != jukebox.LyricsPlaceholder {
		t.Errorf("stale lyrics applied: %q", m.lyrics)
	}
	m, _ = update(t, m, endedMsg{generation: first.Load.Generation})
	if m.active != 1 {
		t.Errorf("stale end moved to row %d", m.active)
	}
}

func TestKeys(t *testing.T) {
	m, media, _ := newTestModel(t, deps{}, "a.mp3", "b.mp3", "c.mp3")

	m, _ = update(t, m, key(" "))
	if m.playing || !media.Paused() {
		t.Error("space should pause")
	}
	m, _ = update(t, m, key(" "))
	if !m.playing {
		t.Error("space should resume")
	}

	m, _ = update(t, m, key("n"))
	if m.active != 1 {
		t.Errorf("next: active %d", m.active)
	}
	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, key("p"))
	if m.active != 2 {
		t.Errorf("prev wrap: active %d", m.active)
	}

	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, key("r"))
	if !m.shuffle || !m.repeat {
		t.Errorf("modes shuffle=%v repeat=%v", m.shuffle, m.repeat)
	}

	m, _ = update(t, m, key("-"))
	if media.Volume() != 0.95 || m.volume != 0.95 {
		t.Errorf("volume = %v", media.Volume())
	}

	m, _ = update(t, m, key("5"))
	if media.Position() != 100*time.Second {
		t.Errorf("seek 50%% = %v", media.Position())
	}
	m, _ = update(t, m, key("right"))
	if media.Position() != 105*time.Second {
		t.Errorf("seek +5s = %v", media.Position())
	}
	if m.elapsed != "1:45" || m.total != "3:20" {
		t.Errorf("progress %s / %s", m.elapsed, m.total)
	}

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}
}

func TestSelectAndJump(t *testing.T) {
	m, _, _ := newTestModel(t, deps{}, "a.mp3", "b.mp3", "c.mp3")

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	if m.selected != 2 || m.active != 0 {
		t.Fatalf("selected %d active %d", m.selected, m.active)
	}
	m, _ = update(t, m, key("enter"))
	if m.active != 2 {
		t.Errorf("enter should play row 2, active %d", m.active)
	}
	m, _ = update(t, m, key("up"))
	if m.selected != 1 || m.active != 2 {
		t.Errorf("selected %d active %d", m.selected, m.active)
	}
}

func TestFirstInteractionStartsVisualizer(t *testing.T) {
	var started int
	lazy := visualizer.NewLazy(func() *visualizer.Session {
		return visualizer.NewSession(jukebox.NewTap(64), 256, 0.8, 10, 4)
	}, func(*visualizer.Session) { started++ })

	m, _, _ := newTestModel(t, deps{viz: lazy}, "a.mp3")
	if lazy.Session() != nil {
		t.Fatal("visualizer must wait for user interaction")
	}

	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	m, _ = update(t, m, key("s"))
	if started != 1 {
		t.Errorf("started %d times", started)
	}
	w, h := m.vizSize()
	if lazy.Session() == nil || w <= 0 || h <= 0 {
		t.Error("session should exist and have a size")
	}

	m, _ = update(t, m, frameMsg("frame"))
	if !strings.Contains(m.View(), "frame") {
		t.Error("frame should be drawn")
	}
}

func TestCopyLyrics(t *testing.T) {
	var copied string
	m, _, _ := newTestModel(t, deps{copy: func(s string) error { copied = s; return nil }}, "a.mp3")

	_, cmd := update(t, m, key("y"))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	m, _ = update(t, m, cmd())
	if copied != jukebox.LyricsPlaceholder || m.status != "lyrics copied" {
		t.Errorf("copied %q status %q", copied, m.status)
	}

	m, _ = update(t, m, copiedMsg{err: errors.New("no clipboard")})
	if !strings.Contains(m.status, "no clipboard") {
		t.Errorf("status = %q", m.status)
	}
}

func TestNotifyOnResolvedMetadata(t *testing.T) {
	n := &stubNotifier{}
	media := newStubMedia()
	jb := jukebox.New(media)
	m := newModel(context.Background(), jb, deps{notifier: n}, settings{notify: true})
	u := jb.Replace(tracks("a.mp3"))
	m, _ = m.apply(u)

	_, cmd := update(t, m, metadataMsg{generation: u.Load.Generation, md: metadata.Metadata{Title: "Hello", Artist: "Adele"}})
	if cmd == nil {
		t.Fatal("expected notification command")
	}
	cmd()
	if len(n.titles) != 1 || n.titles[0] != "Now playing: Hello" {
		t.Errorf("notifications = %v", n.titles)
	}

	_, cmd = update(t, m, metadataMsg{generation: u.Load.Generation, md: metadata.Metadata{Title: "x"}, err: errors.New("bad tags")})
	if cmd != nil {
		t.Error("failed tag reads should not notify")
	}
}

func TestWatchReplacesPlaylist(t *testing.T) {
	m, _, _ := newTestModel(t, deps{}, "a.mp3")
	m, _ = update(t, m, tracksMsg{tracks: tracks("x.mp3", "y.wav")})
	if len(m.names) != 2 || m.names[0] != "x.mp3" || m.active != 0 {
		t.Errorf("names %v active %d", m.names, m.active)
	}

	m, _ = update(t, m, tracksMsg{})
	if len(m.names) != 0 || m.active != -1 || m.playing {
		t.Errorf("empty rescan: names %v active %d playing %v", m.names, m.active, m.playing)
	}
}

func TestViewShowsPlaylistAndTrack(t *testing.T) {
	m, _, _ := newTestModel(t, deps{}, "first song.mp3", "second.wav")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"first song.mp3", "second.wav", metadata.UnknownArtist, "Playlist (2)", "Lyrics", "0:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderCover(t *testing.T) {
	out := renderCover(metadata.DefaultCoverURL(), 8, 4)
	if lines := strings.Split(out, "\n"); len(lines) != 4 {
		t.Errorf("cover has %d lines, want 4", len(lines))
	}
	if fallback := renderCover("not a data url", 8, 4); fallback != out {
		t.Error("bad cover should fall back to the placeholder")
	}
}

func TestResolveSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Player.Shuffle = true
	cfg.Notifications.Enabled = true

	s := resolveSettings(&Params{Volume: -1}, cfg)
	if !s.shuffle || s.repeat || s.volume != 1 || s.artist != config.DefaultLyricsArtist || s.fps != 30 || !s.notify {
		t.Errorf("config defaults = %+v", s)
	}

	s = resolveSettings(&Params{Volume: 0.4, Artist: "Queen", FPS: 10, Repeat: true}, cfg)
	if s.volume != 0.4 || s.artist != "Queen" || s.fps != 10 || !s.repeat {
		t.Errorf("flag overrides = %+v", s)
	}
	if lyrics.Query("Bohemian Rhapsody.mp3") != "Bohemian Rhapsody" {
		t.Error("lyrics query should drop the extension")
	}
}
