package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/dicetracker/internal/config"
	"github.com/lox/dicetracker/internal/report"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" type:"path" default:"dicetracker.hcl" help:"HCL configuration file (ignored if missing)"`
	Debug    bool   `help:"Enable debug logging"`
	LogLevel string `help:"Log level: debug, info, warn or error (overrides config)"`
	LogFile  string `type:"path" help:"Write logs to this file (form defaults to the configured log file)"`
	NoColor  bool   `help:"Disable colored output"`
}

// load reads and validates configuration, then applies flag overrides
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.UI.LogLevel = g.LogLevel
	}
	if g.Debug {
		cfg.UI.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}

	report.SetColor(cfg.ColorEnabled() && !g.NoColor)
	return cfg, nil
}

// setupLogger builds a logger writing to w at the configured level
func setupLogger(w io.Writer, level string, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
	})
}

// openLogFile opens path for logging, truncating any previous run
func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
