package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/karaniscooked/music-player/cmd/common"
	"github.com/karaniscooked/music-player/cmd/common/config"
	"github.com/spf13/cobra"
)

type Params struct {
	Init  bool `optional:"true" help:"Write the default config file"`
	Force bool `short:"f" optional:"true" help:"Overwrite an existing config file with --init"`
	Path  bool `short:"p" optional:"true" help:"Print the config file path and exit"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "config",
		Short:       "Show or initialize the player configuration",
		Long:        "Print the effective configuration (file values with defaults filled in), or write the defaults to ~/.music-player/config.json with --init.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := runConfig(params, config.ConfigPath(), os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "config: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func runConfig(params *Params, path string, stdout io.Writer) error {
	if params.Path {
		fmt.Fprintln(stdout, path)
		return nil
	}

	if params.Init {
		if _, err := os.Stat(path); err == nil && !params.Force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
		return nil
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
