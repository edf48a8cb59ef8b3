// Package play implements the interactive terminal player.
package play

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/karaniscooked/music-player/cmd/common"
	"github.com/karaniscooked/music-player/cmd/common/config"
	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/karaniscooked/music-player/cmd/play/lyrics"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
	"github.com/karaniscooked/music-player/cmd/play/source"
	"github.com/karaniscooked/music-player/cmd/play/visualizer"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths   []string `pos:"true" optional:"true" help:"Audio files (.mp3, .wav), directories or archives to play"`
	Shuffle bool     `short:"s" optional:"true" help:"Start in shuffle mode"`
	Repeat  bool     `short:"r" optional:"true" help:"Start in repeat mode"`
	Volume  float64  `optional:"true" help:"Initial volume between 0 and 1 (negative means use config)" default:"-1"`
	Artist  string   `short:"a" optional:"true" help:"Artist used for lyrics lookups (default from config)"`
	Watch   bool     `short:"w" optional:"true" help:"Rescan the given paths when files change"`
	FPS     int      `optional:"true" help:"Visualizer frames per second (0 means use config)" default:"0"`
	Verbose bool     `short:"v" optional:"true" help:"Write debug output to the log file"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Play audio files with metadata, lyrics and a visualizer",
		Long: `Play local audio files in the terminal.

Controls:
  space        Play / pause
  n / p        Next / previous track
  ←/→          Seek 5 seconds
  0-9          Seek to 0%-90%
  +/-          Volume
  s / r        Toggle shuffle / repeat
  ↑/↓ enter    Select and play a playlist row
  [ / ]        Scroll lyrics
  y            Copy lyrics to the clipboard
  q            Quit

The visualizer starts on the first key press. Logs go to ~/.music-player/music-player.log.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := runPlay(params); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// settings is the merged result of config and flags.
type settings struct {
	shuffle   bool
	repeat    bool
	volume    float64
	artist    string
	fps       int
	fftSize   int
	smoothing float64
	notify    bool
}

func resolveSettings(params *Params, cfg *config.Config) settings {
	s := settings{
		shuffle:   params.Shuffle || cfg.Player.Shuffle,
		repeat:    params.Repeat || cfg.Player.Repeat,
		volume:    cfg.Player.InitialVolume(),
		artist:    cfg.Lyrics.Artist,
		fps:       cfg.Visualizer.FPS,
		fftSize:   cfg.Visualizer.FFTSize,
		smoothing: cfg.Visualizer.Smoothing,
		notify:    cfg.Notifications.Enabled,
	}
	if params.Volume >= 0 {
		s.volume = min(params.Volume, 1)
	}
	if params.Artist != "" {
		s.artist = params.Artist
	}
	if params.FPS > 0 {
		s.fps = params.FPS
	}
	return s
}

func runPlay(params *Params) error {
	closeLog := common.SetupFileLogging(params.Verbose)
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	s := resolveSettings(params, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracks, err := source.Collect(ctx, params.Paths)
	if err != nil {
		slog.Warn("some paths could not be read", "error", err)
	}
	if len(tracks) == 0 && !params.Watch {
		if err != nil {
			return err
		}
		return source.ErrNoTracks
	}
	if !jukebox.AudioAvailable {
		slog.Warn("audio output not available in this build, playing silently")
	}

	player := jukebox.NewPlayer()
	jb := jukebox.New(player)
	defer player.Stop()

	events := make(chan tea.Msg, 64)
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}
	jb.SetEndedHandler(func(generation uint64) {
		send(endedMsg{generation: generation})
	})

	viz := visualizer.NewLazy(
		func() *visualizer.Session {
			return visualizer.NewSession(jb.Tap(), s.fftSize, s.smoothing, 80, 16)
		},
		func(session *visualizer.Session) {
			loop := &visualizer.Loop{
				Session: session,
				OnFrame: func(frame string) {
					select {
					case events <- frameMsg(frame):
					default: // drop frames while the UI is busy
					}
				},
			}
			go func() {
				if err := loop.RunAt(ctx, s.fps); err != nil && ctx.Err() == nil {
					slog.Warn("visualizer stopped", "error", err)
				}
			}()
		},
	)

	m := newModel(ctx, jb, deps{
		metadata: metadata.NewResolver(),
		lyrics:   lyrics.NewClient(cfg.Lyrics.BaseURL, cfg.Lyrics.Timeout()),
		notifier: desktopNotifier{},
		copy:     clipboard.WriteAll,
		viz:      viz,
		events:   events,
	}, s)

	// Initial state goes through the same instruction path as everything else
	m, initCmd := m.applyAll(
		jb.SetVolume(s.volume),
		jb.SetShuffle(s.shuffle),
		jb.SetRepeat(s.repeat),
		jb.Replace(tracks),
	)
	m.initCmd = initCmd

	if params.Watch {
		go func() {
			err := source.Watch(ctx, params.Paths, source.DefaultDebounce, func(tracks []*jukebox.Track, err error) {
				send(tracksMsg{tracks: tracks, err: err})
			})
			if err != nil && ctx.Err() == nil {
				slog.Warn("watch stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
