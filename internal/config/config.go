// Package config loads the rangepoker HCL configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/pacing"
)

// Config represents the complete configuration
type Config struct {
	Game        GameSettings
	Pacing      PacingSettings
	Server      ServerSettings
	Log         LogSettings
	Preferences PreferenceSettings
}

// GameSettings contains round settings
type GameSettings struct {
	Mode string
	// Seed makes decks reproducible when non-zero.
	Seed int64
}

// PacingSettings contains reveal delays in milliseconds
type PacingSettings struct {
	EasyDelayMS int
	HardDelayMS int
}

// ServerSettings contains websocket server settings
type ServerSettings struct {
	Address            string
	Port               int
	ReadTimeoutSeconds int
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string
	File  string
}

// PreferenceSettings locates the preferences file
type PreferenceSettings struct {
	Path string
}

// Absent blocks and attributes decode as nil pointers and keep their defaults.
type fileConfig struct {
	Game        *fileGame        `hcl:"game,block"`
	Pacing      *filePacing      `hcl:"pacing,block"`
	Server      *fileServer      `hcl:"server,block"`
	Log         *fileLog         `hcl:"log,block"`
	Preferences *filePreferences `hcl:"preferences,block"`
}

type fileGame struct {
	Mode *string `hcl:"mode,optional"`
	Seed *int64  `hcl:"seed,optional"`
}

type filePacing struct {
	EasyDelayMS *int `hcl:"easy_delay_ms,optional"`
	HardDelayMS *int `hcl:"hard_delay_ms,optional"`
}

type fileServer struct {
	Address            *string `hcl:"address,optional"`
	Port               *int    `hcl:"port,optional"`
	ReadTimeoutSeconds *int    `hcl:"read_timeout_seconds,optional"`
}

type fileLog struct {
	Level *string `hcl:"level,optional"`
	File  *string `hcl:"file,optional"`
}

type filePreferences struct {
	Path *string `hcl:"path,optional"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Game: GameSettings{
			Mode: string(game.Easy),
		},
		Pacing: PacingSettings{
			EasyDelayMS: int(pacing.DefaultEasyDelay / time.Millisecond),
			HardDelayMS: int(pacing.DefaultHardDelay / time.Millisecond),
		},
		Server: ServerSettings{
			Address:            "localhost",
			Port:               8080,
			ReadTimeoutSeconds: 300,
		},
		Log: LogSettings{
			Level: "info",
		},
		Preferences: PreferenceSettings{
			Path: DefaultPreferencesPath(),
		},
	}
}

// DefaultPreferencesPath returns the preferences file under the user's
// config directory, or a file in the working directory when that is unknown.
func DefaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "rangepoker-prefs.json"
	}
	return filepath.Join(dir, "rangepoker", "prefs.json")
}

// Load loads configuration from an HCL file. A missing file yields the
// default configuration.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	raw.apply(config)
	return config, nil
}

func (f *fileConfig) apply(c *Config) {
	if g := f.Game; g != nil {
		set(&c.Game.Mode, g.Mode)
		set(&c.Game.Seed, g.Seed)
	}
	if p := f.Pacing; p != nil {
		set(&c.Pacing.EasyDelayMS, p.EasyDelayMS)
		set(&c.Pacing.HardDelayMS, p.HardDelayMS)
	}
	if s := f.Server; s != nil {
		set(&c.Server.Address, s.Address)
		set(&c.Server.Port, s.Port)
		set(&c.Server.ReadTimeoutSeconds, s.ReadTimeoutSeconds)
	}
	if l := f.Log; l != nil {
		set(&c.Log.Level, l.Level)
		set(&c.Log.File, l.File)
	}
	if p := f.Preferences; p != nil && p.Path != nil && *p.Path != "" {
		c.Preferences.Path = *p.Path
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := game.ParseMode(c.Game.Mode); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Pacing.EasyDelayMS < 0 {
		return fmt.Errorf("pacing: easy_delay_ms must not be negative: %d", c.Pacing.EasyDelayMS)
	}
	if c.Pacing.HardDelayMS < 0 {
		return fmt.Errorf("pacing: hard_delay_ms must not be negative: %d", c.Pacing.HardDelayMS)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return fmt.Errorf("server: read_timeout_seconds must not be negative: %d", c.Server.ReadTimeoutSeconds)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log: invalid level %q", c.Log.Level)
	}
	return nil
}

// Mode returns the configured game mode. It assumes Validate has passed.
func (c *Config) Mode() game.Mode {
	mode, err := game.ParseMode(c.Game.Mode)
	if err != nil {
		return game.Easy
	}
	return mode
}

// Delay returns the reveal delay for mode
func (c *Config) Delay(mode game.Mode) time.Duration {
	if mode == game.Hard {
		return time.Duration(c.Pacing.HardDelayMS) * time.Millisecond
	}
	return time.Duration(c.Pacing.EasyDelayMS) * time.Millisecond
}

// ReadTimeout returns the websocket read timeout, zero meaning none.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// ServerAddress returns the full server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
