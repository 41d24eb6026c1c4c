package main

import (
	"io"
	"os"
	"time"

	"github.com/lox/dicetracker/internal/console"
	"github.com/lox/dicetracker/internal/simulator"
)

type ConsoleCmd struct {
	Players int           `short:"p" help:"Number of players (prompted if omitted)"`
	Mode    string        `short:"m" help:"Rolling mode: automatic or manual (prompted if omitted)"`
	Seed    int64         `help:"RNG seed for automatic mode (0 for random)"`
	Delay   time.Duration `help:"Pause between automatic rounds (overrides config)"`
}

func (c *ConsoleCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	var logOut io.Writer = os.Stderr
	if g.LogFile != "" {
		f, err := openLogFile(g.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := setupLogger(logOut, cfg.UI.LogLevel, "dicetracker")

	ctx, stop := setupSignalHandler(logger)
	defer stop()

	seed := cfg.Automatic.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}
	delay := cfg.Delay()
	if c.Delay > 0 {
		delay = c.Delay
	}

	var mode console.Mode
	if c.Mode != "" {
		if mode, err = console.ParseMode(c.Mode); err != nil {
			return err
		}
	}

	return console.New(console.Config{
		Players:           c.Players,
		Mode:              mode,
		Threshold:         cfg.Tally.Threshold,
		MinRollsPerPlayer: cfg.Tally.MinRollsPerPlayer,
		Simulator: simulator.Config{
			MinRounds: cfg.Automatic.MinRounds,
			MaxRounds: cfg.Automatic.MaxRounds,
			Seed:      seed,
			Delay:     delay,
			Logger:    logger,
		},
		Logger: logger,
	}, os.Stdin, os.Stdout).Run(ctx)
}
