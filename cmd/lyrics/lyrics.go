package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/karaniscooked/music-player/cmd/common"
	"github.com/karaniscooked/music-player/cmd/common/config"
	"github.com/karaniscooked/music-player/cmd/play/lyrics"
	"github.com/spf13/cobra"
)

type Params struct {
	Title   string `pos:"true" required:"true" help:"Song title or file name (text after the first '.' is ignored)"`
	Artist  string `short:"a" optional:"true" help:"Artist to search under (default from config)"`
	Timeout int    `short:"t" optional:"true" help:"Request timeout in seconds (default from config)" default:"0"`
	Verbose bool   `short:"v" optional:"true" help:"Debug logging"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "lyrics",
		Short:       "Look up lyrics the way the player does",
		Long:        "Fetch lyrics for a title from the lyrics API and print them. Exits non-zero when none are found or the API fails.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.SetupStderrLogging(params.Verbose)
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "lyrics: loading config: %v\n", err)
				os.Exit(1)
			}
			if err := runLyrics(context.Background(), params, cfg, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "lyrics: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func runLyrics(ctx context.Context, params *Params, cfg *config.Config, stdout io.Writer) error {
	artist := cfg.Lyrics.Artist
	if params.Artist != "" {
		artist = params.Artist
	}
	timeout := cfg.Lyrics.Timeout()
	if params.Timeout > 0 {
		timeout = time.Duration(params.Timeout) * time.Second
	}

	client := lyrics.NewClient(cfg.Lyrics.BaseURL, timeout)
	text, err := client.Fetch(ctx, artist, params.Title)
	switch {
	case err == nil:
		fmt.Fprintln(stdout, text)
		return nil
	case errors.Is(err, lyrics.ErrNotFound):
		return fmt.Errorf("%s (artist %q, title %q)", lyrics.NotFoundText, artist, lyrics.Query(params.Title))
	default:
		return fmt.Errorf("%s: %w", lyrics.FailedText, err)
	}
}
