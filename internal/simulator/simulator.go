package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/dicetracker/internal/dice"
	"github.com/lox/dicetracker/internal/session"
)

const (
	DefaultMinRounds = 15
	DefaultMaxRounds = 17
)

// Config holds configuration for an automatic game
type Config struct {
	MinRounds int
	MaxRounds int
	Seed      int64         // 0 seeds from the clock
	Delay     time.Duration // pause between rounds
	Clock     quartz.Clock
	Logger    *log.Logger
}

// Hooks receive progress as the simulation runs. Either may be nil.
type Hooks struct {
	RoundStarted func(round, rounds int)
	Rolled       func(turn session.Turn, sum int)
}

// Result summarises a finished simulation
type Result struct {
	Rounds int
	Rolls  int
	Seed   int64
}

// Simulator rolls dice on behalf of every player in a session
type Simulator struct {
	config Config
	roller *dice.Roller
}

// New creates a simulator, filling in defaults for unset config fields
func New(config Config) *Simulator {
	if config.MinRounds <= 0 {
		config.MinRounds = DefaultMinRounds
	}
	if config.MaxRounds < config.MinRounds {
		config.MaxRounds = max(DefaultMaxRounds, config.MinRounds)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return &Simulator{
		config: config,
		roller: dice.New(config.Seed),
	}
}

// Run plays between MinRounds and MaxRounds rounds, one roll per player per
// round, recording every roll into sess. It stops early if ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, sess *session.Session, hooks Hooks) (Result, error) {
	rounds := s.roller.IntN(s.config.MinRounds, s.config.MaxRounds)
	result := Result{Rounds: rounds, Seed: s.config.Seed}
	logger := s.config.Logger.WithPrefix("simulator")

	logger.Info("Starting automatic game", "rounds", rounds, "players", sess.Players(), "seed", s.config.Seed)

	for round := 1; round <= rounds; round++ {
		if round > 1 {
			if err := s.wait(ctx); err != nil {
				logger.Warn("Simulation interrupted", "round", round, "rolls", result.Rolls)
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if hooks.RoundStarted != nil {
			hooks.RoundStarted(round, rounds)
		}

		for p := 0; p < sess.Players(); p++ {
			sum := s.roller.RollSum()
			turn, err := sess.Roll(sum)
			if err != nil {
				return result, fmt.Errorf("round %d: %w", round, err)
			}
			result.Rolls++
			logger.Debug("Rolled", "round", turn.Round, "player", turn.Player, "sum", sum)

			if hooks.Rolled != nil {
				hooks.Rolled(turn, sum)
			}
		}
	}

	if v, ok := sess.Sink().(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return result, fmt.Errorf("tally validation failed: %w", err)
		}
	}

	logger.Info("Automatic game complete", "rounds", rounds, "rolls", result.Rolls)
	return result, nil
}

// wait pauses for the configured delay on the simulator's clock
func (s *Simulator) wait(ctx context.Context) error {
	if s.config.Delay <= 0 {
		return nil
	}
	timer := s.config.Clock.NewTimer(s.config.Delay, "simulator", "round")
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
