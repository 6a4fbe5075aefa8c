package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/rangepoker/internal/config"
	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/prefs"
	"github.com/lox/rangepoker/internal/tui"
)

// PlayCmd starts the terminal game
type PlayCmd struct {
	Mode    string `short:"m" help:"Drafting mode (easy or hard); defaults to the configured mode"`
	Seed    int64  `help:"Deal reproducible decks from this seed (0 for random)"`
	NoColor bool   `help:"Disable colours" env:"NO_COLOR"`
	Prefs   string `help:"Preferences file; defaults to the configured path" type:"path"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	// The terminal belongs to the game, so logs only go to a configured file.
	logger, closeLog, err := setupLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	mode := cfg.Mode()
	if c.Mode != "" {
		if mode, err = game.ParseMode(c.Mode); err != nil {
			return err
		}
	}
	seed := cfg.Game.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}

	store, err := prefs.Load(c.prefsPath(cfg), logger)
	if err != nil {
		return err
	}

	logger.Info("Starting game", "mode", mode, "seed", seed, "prefs", store.Path())
	model, err := tui.NewTUIModel(tui.Options{
		Mode:      mode,
		NewDeck:   deck.Source(seed),
		Prefs:     store,
		EasyDelay: cfg.Delay(game.Easy),
		HardDelay: cfg.Delay(game.Hard),
	}, logger)
	if err != nil {
		return err
	}
	return tui.Run(model)
}

func (c *PlayCmd) prefsPath(cfg *config.Config) string {
	if c.Prefs != "" {
		return c.Prefs
	}
	return cfg.Preferences.Path
}
