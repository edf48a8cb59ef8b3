package play

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
	"github.com/karaniscooked/music-player/cmd/play/visualizer"
)

const (
	tickInterval = 250 * time.Millisecond
	seekStep     = 5 * time.Second
	volumeStep   = 0.05
)

type tickMsg time.Time

// endedMsg is sent from the media element when a track plays to its end.
type endedMsg struct{ generation uint64 }

type metadataMsg struct {
	generation uint64
	md         metadata.Metadata
	err        error
}

type lyricsMsg struct {
	generation uint64
	text       string
}

// frameMsg carries one rendered visualizer frame.
type frameMsg string

// tracksMsg is a fresh playlist from --watch.
type tracksMsg struct {
	tracks []*jukebox.Track
	err    error
}

type copiedMsg struct{ err error }

type metadataResolver interface {
	Resolve(ctx context.Context, name string, data io.ReadSeeker) (metadata.Metadata, error)
}

type lyricsResolver interface {
	Resolve(ctx context.Context, artist, title string) string
}

type deps struct {
	metadata metadataResolver
	lyrics   lyricsResolver
	notifier notifier
	copy     func(text string) error
	viz      *visualizer.Lazy
	events   chan tea.Msg
}

type model struct {
	ctx  context.Context
	jb   *jukebox.Jukebox
	deps deps
	opts settings

	initCmd tea.Cmd

	// Display state, written only by apply
	names    []string
	active   int // playing row, -1 for none
	selected int // keyboard selection
	md       metadata.Metadata
	cover    string
	lyrics   string
	playing  bool
	percent  float64
	elapsed  string
	total    string
	volume   float64
	shuffle  bool
	repeat   bool
	status   string

	lyricsView viewport.Model
	progress   progress.Model
	frame      string

	width  int
	height int
}

func newModel(ctx context.Context, jb *jukebox.Jukebox, d deps, s settings) model {
	return model{
		ctx:        ctx,
		jb:         jb,
		deps:       d,
		opts:       s,
		active:     -1,
		elapsed:    jukebox.Format(0),
		total:      jukebox.Format(0),
		volume:     1,
		lyricsView: viewport.New(40, 10),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:      100,
		height:     32,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, tickCmd(), waitForEvent(m.deps.events))
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent delivers the next message from outside the event loop.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m = m.activateVisualizer()
		return m.handleKey(msg)

	case tea.MouseMsg:
		m = m.activateVisualizer()
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollLyrics(-3)
		case tea.MouseButtonWheelDown:
			m.scrollLyrics(3)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.layout()
		return m, nil

	case tickMsg:
		m, cmd := m.apply(m.jb.TimeUpdate())
		return m, tea.Batch(cmd, tickCmd())

	case endedMsg:
		m, cmd := m.apply(m.jb.Ended(msg.generation))
		return m, tea.Batch(cmd, waitForEvent(m.deps.events))

	case metadataMsg:
		u := m.jb.ApplyMetadata(msg.generation, msg.md)
		m, cmd := m.apply(u)
		if !u.Empty() && msg.err == nil && m.opts.notify && m.deps.notifier != nil {
			cmd = tea.Batch(cmd, notifyCmd(m.deps.notifier, msg.md))
		}
		return m, cmd

	case lyricsMsg:
		return m.apply(m.jb.ApplyLyrics(msg.generation, msg.text))

	case frameMsg:
		m.frame = string(msg)
		return m, waitForEvent(m.deps.events)

	case tracksMsg:
		if msg.err != nil {
			slog.Warn("rescan reported errors", "error", msg.err)
		}
		m, cmd := m.apply(m.jb.Replace(msg.tracks))
		m.status = fmt.Sprintf("playlist reloaded: %d tracks", len(msg.tracks))
		return m, tea.Batch(cmd, waitForEvent(m.deps.events))

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "lyrics copied"
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		return m.apply(m.jb.TogglePlayPause())
	case "n":
		return m.apply(m.jb.Next())
	case "p", "b":
		return m.apply(m.jb.Prev())
	case "s":
		return m.apply(m.jb.ToggleShuffle())
	case "r":
		return m.apply(m.jb.ToggleRepeat())
	case "+", "=":
		return m.apply(m.jb.SetVolume(m.volume + volumeStep))
	case "-", "_":
		return m.apply(m.jb.SetVolume(m.volume - volumeStep))
	case "left", "h":
		return m.apply(m.jb.Seek(m.seekPercent(-seekStep)))
	case "right", "l":
		return m.apply(m.jb.Seek(m.seekPercent(seekStep)))
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.apply(m.jb.Seek(float64(key[0]-'0') * 10))
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.names)-1 {
			m.selected++
		}
	case "enter":
		return m.apply(m.jb.JumpTo(m.selected))
	case "[", "pgup":
		m.scrollLyrics(-m.lyricsView.Height / 2)
	case "]", "pgdown":
		m.scrollLyrics(m.lyricsView.Height / 2)
	case "y":
		return m, copyCmd(m.deps.copy, m.lyrics)
	}
	return m, nil
}

// seekPercent converts a relative jump into the absolute percentage the
// controller expects.
func (m model) seekPercent(delta time.Duration) float64 {
	status := m.jb.Status()
	if status.Duration <= 0 {
		return 0
	}
	target := status.Position + delta
	return float64(target) / float64(status.Duration) * 100
}

func (m *model) scrollLyrics(lines int) {
	m.lyricsView.SetYOffset(m.lyricsView.YOffset + lines)
}

// activateVisualizer starts the visualizer on the first user interaction.
func (m model) activateVisualizer() model {
	if m.deps.viz == nil {
		return m
	}
	session, created := m.deps.viz.Activate()
	if created && session != nil {
		session.Resize(m.vizSize())
		slog.Debug("visualizer started")
	}
	return m
}

// applyAll applies several updates in order.
func (m model) applyAll(updates ...jukebox.Update) (model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, u := range updates {
		var cmd tea.Cmd
		m, cmd = m.apply(u)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// apply folds controller instructions into the display state and starts
// metadata and lyrics resolution for a freshly loaded track.
func (m model) apply(u jukebox.Update) (model, tea.Cmd) {
	for _, ins := range u.Instructions {
		switch ins := ins.(type) {
		case jukebox.RenderPlaylist:
			m.names = ins.Names
			m.selected = min(max(m.selected, 0), max(len(m.names)-1, 0))
			m.status = ""
		case jukebox.HighlightRow:
			m.active = ins.Index
			if ins.Index >= 0 {
				m.selected = ins.Index
			}
		case jukebox.ShowMetadata:
			m.md = ins.Metadata
			m.cover = renderCover(ins.Metadata.CoverURL, coverWidth, coverRows)
		case jukebox.ShowLyrics:
			m.lyrics = ins.Text
			m.lyricsView.SetContent(wrapLyrics(ins.Text, m.lyricsView.Width))
			m.lyricsView.GotoTop()
		case jukebox.ShowPlaying:
			m.playing = ins.Playing
		case jukebox.ShowProgress:
			m.percent = ins.Percent
			m.elapsed = ins.Elapsed
			m.total = ins.Total
		case jukebox.ShowVolume:
			m.volume = ins.Volume
		case jukebox.ShowModes:
			m.shuffle = ins.Shuffle
			m.repeat = ins.Repeat
		case jukebox.ShowError:
			m.status = ins.Err.Error()
		}
	}

	if u.Load == nil {
		return m, nil
	}
	return m, tea.Batch(
		resolveMetadataCmd(m.ctx, m.deps.metadata, *u.Load),
		resolveLyricsCmd(m.ctx, m.deps.lyrics, m.opts.artist, *u.Load),
	)
}

func resolveMetadataCmd(ctx context.Context, resolver metadataResolver, load jukebox.Load) tea.Cmd {
	if resolver == nil {
		return nil
	}
	return func() tea.Msg {
		md, err := resolver.Resolve(ctx, load.Track.Name, bytes.NewReader(load.Track.Data))
		return metadataMsg{generation: load.Generation, md: md, err: err}
	}
}

func resolveLyricsCmd(ctx context.Context, resolver lyricsResolver, artist string, load jukebox.Load) tea.Cmd {
	if resolver == nil {
		return nil
	}
	return func() tea.Msg {
		return lyricsMsg{generation: load.Generation, text: resolver.Resolve(ctx, artist, load.Track.Name)}
	}
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	if copyFn == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}
