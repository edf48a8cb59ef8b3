package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/karaniscooked/music-player/cmd/common"
	configcmd "github.com/karaniscooked/music-player/cmd/config"
	"github.com/karaniscooked/music-player/cmd/lyrics"
	"github.com/karaniscooked/music-player/cmd/play"
	"github.com/karaniscooked/music-player/cmd/tags"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     common.AppName,
		Short:   "Terminal audio player with metadata, lyrics and a visualizer",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			lyrics.Cmd(),
			tags.Cmd(),
			configcmd.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
