package tags

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/karaniscooked/music-player/cmd/common"
	"github.com/karaniscooked/music-player/cmd/play/jukebox"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
	"github.com/karaniscooked/music-player/cmd/play/source"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Paths   []string `pos:"true" required:"true" help:"Audio files, directories or archives to inspect"`
	Verbose bool     `short:"v" optional:"true" help:"Log tag read failures"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tags",
		Short:       "Show the metadata the player would display for each track",
		Long:        "Read title, artist and cover art tags the same way the player does, falling back to the file name and \"Unknown Artist\".",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.SetupStderrLogging(params.Verbose)
			if err := runTags(context.Background(), params, os.Stdout, terminalWidth()); err != nil {
				fmt.Fprintf(os.Stderr, "tags: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// terminalWidth returns the terminal width, or a default if unavailable
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

func runTags(ctx context.Context, params *Params, stdout io.Writer, width int) error {
	tracks, err := source.Collect(ctx, params.Paths)
	if err != nil {
		slog.Warn("some paths could not be read", "error", err)
	}
	if len(tracks) == 0 {
		if err != nil {
			return err
		}
		return source.ErrNoTracks
	}

	resolver := metadata.NewResolver()

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(width)
	t.AppendHeader(table.Row{"#", "File", "Title", "Artist", "Length", "Cover", "Size"})

	// Title and artist share what is left after the fixed columns
	textWidth := max((width-50)/3, 12)

	for i, track := range tracks {
		md, err := resolver.Resolve(ctx, track.Name, bytes.NewReader(track.Data))
		if err != nil {
			slog.Debug("using default metadata", "track", track.Name, "error", err)
		}

		length := "?"
		if d, err := jukebox.ProbeDuration(track); err == nil {
			length = jukebox.FormatDuration(d)
		}

		t.AppendRow(table.Row{
			i + 1,
			runewidth.Truncate(track.Name, textWidth, "…"),
			runewidth.Truncate(md.Title, textWidth, "…"),
			runewidth.Truncate(md.Artist, textWidth, "…"),
			length,
			coverLabel(md.CoverURL),
			formatSize(track.Size),
		})
	}

	t.Render()
	return nil
}

// coverLabel names the embedded cover's format, or "-" for the placeholder.
func coverLabel(url string) string {
	if url == metadata.DefaultCoverURL() {
		return "-"
	}
	format, _, err := metadata.DecodeDataURL(url)
	if err != nil {
		return "?"
	}
	return format
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
