package main

import (
	"github.com/lox/dicetracker/internal/simulator"
	"github.com/lox/dicetracker/internal/tui"
)

type FormCmd struct {
	Players int   `short:"p" help:"Number of players to start with"`
	Seed    int64 `help:"RNG seed for automatic games (0 for random)"`
}

func (f *FormCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	// The form owns the terminal, so logs always go to a file
	logPath := g.LogFile
	if logPath == "" {
		logPath = cfg.UI.LogFile
	}
	logFile, err := openLogFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := setupLogger(logFile, cfg.UI.LogLevel, "dicetracker")

	ctx, stop := setupSignalHandler(logger)
	defer stop()

	seed := cfg.Automatic.Seed
	if f.Seed != 0 {
		seed = f.Seed
	}

	model := tui.NewModel(tui.Config{
		Players:           f.Players,
		Threshold:         cfg.Tally.Threshold,
		MinRollsPerPlayer: cfg.Tally.MinRollsPerPlayer,
		Simulator: simulator.Config{
			MinRounds: cfg.Automatic.MinRounds,
			MaxRounds: cfg.Automatic.MaxRounds,
			Seed:      seed,
		},
	}, logger)

	logger.Info("Starting form", "players", f.Players)
	return tui.Run(ctx, model)
}
