// Package config provides configuration loading for music-player.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/karaniscooked/music-player/cmd/common"
)

const (
	DefaultLyricsBaseURL = "https://api.lyrics.ovh/v1"
	DefaultLyricsArtist  = "Adele"
)

// Config represents the music-player configuration file structure.
type Config struct {
	Player        *PlayerConfig       `json:"player,omitempty"`
	Lyrics        *LyricsConfig       `json:"lyrics,omitempty"`
	Visualizer    *VisualizerConfig   `json:"visualizer,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`
}

// PlayerConfig holds the initial playback state.
type PlayerConfig struct {
	Volume  *float64 `json:"volume,omitempty"`
	Shuffle bool     `json:"shuffle"`
	Repeat  bool     `json:"repeat"`
}

// LyricsConfig points the lyrics resolver at its API.
type LyricsConfig struct {
	BaseURL        string `json:"base_url,omitempty"`
	Artist         string `json:"artist,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// VisualizerConfig tunes the frequency analyzer and its redraw rate.
type VisualizerConfig struct {
	FPS       int     `json:"fps,omitempty"`
	FFTSize   int     `json:"fft_size,omitempty"`
	Smoothing float64 `json:"smoothing,omitempty"`
}

// NotificationConfig holds settings for "now playing" desktop notifications.
type NotificationConfig struct {
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	volume := 1.0
	return &Config{
		Player: &PlayerConfig{
			Volume: &volume,
		},
		Lyrics: &LyricsConfig{
			BaseURL:        DefaultLyricsBaseURL,
			Artist:         DefaultLyricsArtist,
			TimeoutSeconds: 15,
		},
		Visualizer: &VisualizerConfig{
			FPS:       30,
			FFTSize:   2048,
			Smoothing: 0.8,
		},
		Notifications: &NotificationConfig{
			Enabled: false,
		},
	}
}

// ConfigPath returns the path to the config file (~/.music-player/config.json).
func ConfigPath() string {
	return filepath.Join(common.ConfigDir(), "config.json")
}

// Load loads the config from ~/.music-player/config.json.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the config from path, filling in defaults for anything missing.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Player == nil {
		c.Player = defaults.Player
	} else if c.Player.Volume == nil {
		c.Player.Volume = defaults.Player.Volume
	}

	if c.Lyrics == nil {
		c.Lyrics = defaults.Lyrics
	} else {
		if c.Lyrics.BaseURL == "" {
			c.Lyrics.BaseURL = defaults.Lyrics.BaseURL
		}
		if c.Lyrics.Artist == "" {
			c.Lyrics.Artist = defaults.Lyrics.Artist
		}
		if c.Lyrics.TimeoutSeconds <= 0 {
			c.Lyrics.TimeoutSeconds = defaults.Lyrics.TimeoutSeconds
		}
	}

	if c.Visualizer == nil {
		c.Visualizer = defaults.Visualizer
	} else {
		if c.Visualizer.FPS <= 0 {
			c.Visualizer.FPS = defaults.Visualizer.FPS
		}
		if c.Visualizer.FFTSize <= 0 {
			c.Visualizer.FFTSize = defaults.Visualizer.FFTSize
		}
		if c.Visualizer.Smoothing <= 0 || c.Visualizer.Smoothing >= 1 {
			c.Visualizer.Smoothing = defaults.Visualizer.Smoothing
		}
	}

	if c.Notifications == nil {
		c.Notifications = defaults.Notifications
	}
}

// Save saves the config to ~/.music-player/config.json.
func Save(config *Config) error {
	return SaveTo(ConfigPath(), config)
}

// SaveTo writes the config as indented JSON, creating the directory if needed.
func SaveTo(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Timeout returns the per-request lyrics timeout.
func (c *LyricsConfig) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InitialVolume returns the configured start volume clamped to [0,1].
func (c *PlayerConfig) InitialVolume() float64 {
	if c == nil || c.Volume == nil {
		return 1
	}
	return min(max(*c.Volume, 0), 1)
}
