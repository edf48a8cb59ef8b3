package common

import (
	"os"
	"path/filepath"
)

// AppName is used for the config directory and the log file name.
const AppName = "music-player"

// ConfigDir returns ~/.music-player.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "."+AppName)
}
