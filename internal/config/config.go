package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/dicetracker/internal/session"
	"github.com/lox/dicetracker/internal/simulator"
	"github.com/lox/dicetracker/internal/tally"
)

// Config represents the complete tracker configuration
type Config struct {
	Tally     TallySettings     `hcl:"tally,block"`
	Automatic AutomaticSettings `hcl:"automatic,block"`
	UI        UISettings        `hcl:"ui,block"`
}

// TallySettings controls how deviations are judged
type TallySettings struct {
	Threshold         float64 `hcl:"threshold,optional"`
	MinRollsPerPlayer int     `hcl:"min_rolls_per_player,optional"`
}

// AutomaticSettings controls simulated games
type AutomaticSettings struct {
	MinRounds int   `hcl:"min_rounds,optional"`
	MaxRounds int   `hcl:"max_rounds,optional"`
	DelayMS   int   `hcl:"delay_ms,optional"`
	Seed      int64 `hcl:"seed,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	Color    *bool  `hcl:"color,optional"`
}

// Default returns the default configuration
func Default() *Config {
	color := true
	return &Config{
		Tally: TallySettings{
			Threshold:         tally.DefaultThreshold,
			MinRollsPerPlayer: session.DefaultMinRollsPerPlayer,
		},
		Automatic: AutomaticSettings{
			MinRounds: simulator.DefaultMinRounds,
			MaxRounds: simulator.DefaultMaxRounds,
		},
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "dicetracker.log",
			Color:    &color,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; an empty filename does too.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and backfills defaults for anything unset
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw struct {
		Tally     *TallySettings     `hcl:"tally,block"`
		Automatic *AutomaticSettings `hcl:"automatic,block"`
		UI        *UISettings        `hcl:"ui,block"`
	}
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	defaults := Default()

	if raw.Tally != nil {
		config.Tally = *raw.Tally
	}
	if raw.Automatic != nil {
		config.Automatic = *raw.Automatic
	}
	if raw.UI != nil {
		config.UI = *raw.UI
	}

	if config.Tally.Threshold == 0 {
		config.Tally.Threshold = defaults.Tally.Threshold
	}
	if config.Tally.MinRollsPerPlayer == 0 {
		config.Tally.MinRollsPerPlayer = defaults.Tally.MinRollsPerPlayer
	}
	if config.Automatic.MinRounds == 0 {
		config.Automatic.MinRounds = defaults.Automatic.MinRounds
	}
	if config.Automatic.MaxRounds == 0 {
		config.Automatic.MaxRounds = max(defaults.Automatic.MaxRounds, config.Automatic.MinRounds)
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}
	if config.UI.Color == nil {
		config.UI.Color = defaults.UI.Color
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Tally.Threshold <= 0 || c.Tally.Threshold >= 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", c.Tally.Threshold)
	}
	if c.Tally.MinRollsPerPlayer < 1 {
		return fmt.Errorf("min rolls per player must be positive")
	}
	if c.Automatic.MinRounds < 1 {
		return fmt.Errorf("min rounds must be positive")
	}
	if c.Automatic.MaxRounds < c.Automatic.MinRounds {
		return fmt.Errorf("max rounds (%d) cannot be less than min rounds (%d)",
			c.Automatic.MaxRounds, c.Automatic.MinRounds)
	}
	if c.Automatic.DelayMS < 0 {
		return fmt.Errorf("delay cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// Delay returns the pause between automatic rounds
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Automatic.DelayMS) * time.Millisecond
}

// ColorEnabled reports whether styled output is wanted
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}
