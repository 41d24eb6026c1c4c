package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/dicetracker/internal/report"
	"github.com/lox/dicetracker/internal/session"
	"github.com/lox/dicetracker/internal/simulator"
	"github.com/lox/dicetracker/internal/tally"
)

// Mode selects how rolls are produced
type Mode string

const (
	Automatic Mode = "automatic"
	Manual    Mode = "manual"
)

// ParseMode accepts "automatic" or "manual" in any case
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Automatic:
		return Automatic, nil
	case Manual:
		return Manual, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

const Banner = "🎲 Dice Sum Tracker for Catan or Probability Analysis"

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// Config controls a console game. Zero Players or an empty Mode are
// prompted for.
type Config struct {
	Players           int
	Mode              Mode
	Threshold         float64
	MinRollsPerPlayer int
	Simulator         simulator.Config
	Logger            *log.Logger
}

// Console drives a game over a line-oriented reader and writer
type Console struct {
	config Config
	in     io.Reader
	out    io.Writer
	logger *log.Logger

	lines <-chan string
}

// New creates a console reading answers from in and printing to out
func New(config Config, in io.Reader, out io.Writer) *Console {
	if config.Threshold <= 0 {
		config.Threshold = tally.DefaultThreshold
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Console{
		config: config,
		in:     in,
		out:    out,
		logger: config.Logger.WithPrefix("console"),
	}
}

// errStopped covers both end of input and cancellation while prompting
var errStopped = errors.New("input stopped")

// Run plays one game. Cancelling ctx (e.g. on interrupt) or closing the
// input ends the game with a final report; neither is returned as an error.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.lines = readLines(c.in, done)

	fmt.Fprintln(c.out, titleStyle.Render(Banner))

	players, err := c.players(ctx)
	if err != nil {
		return c.stopped(err)
	}
	mode, err := c.mode(ctx)
	if err != nil {
		return c.stopped(err)
	}

	sess, err := session.New(players, c.config.MinRollsPerPlayer, tally.NewEngine())
	if err != nil {
		return err
	}
	c.logger.Info("Starting game", "players", players, "mode", mode)

	if mode == Automatic {
		return c.runAutomatic(ctx, sess)
	}
	return c.runManual(ctx, sess)
}

func (c *Console) stopped(err error) error {
	if errors.Is(err, errStopped) {
		fmt.Fprintln(c.out, "\nProgram terminated by user.")
		return nil
	}
	return err
}

func (c *Console) players(ctx context.Context) (int, error) {
	if c.config.Players > 0 {
		return c.config.Players, nil
	}
	for {
		line, err := c.prompt(ctx, "Enter the number of players: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(c.out, "Invalid input. Please enter a number.")
			continue
		}
		if n < 1 {
			fmt.Fprintln(c.out, "Must be at least 1 player.")
			continue
		}
		if limit := session.MaxPlayers(c.config.MinRollsPerPlayer); n > limit {
			fmt.Fprintf(c.out, "Too many players. At most %d.\n", limit)
			continue
		}
		return n, nil
	}
}

func (c *Console) mode(ctx context.Context) (Mode, error) {
	if c.config.Mode != "" {
		return c.config.Mode, nil
	}
	for {
		line, err := c.prompt(ctx, "Choose mode - 'Automatic' or 'Manual': ")
		if err != nil {
			return "", err
		}
		mode, err := ParseMode(line)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid choice. Please type 'Automatic' or 'Manual'.")
			continue
		}
		return mode, nil
	}
}

// rollSum prompts player until a sum in 2..12 is entered
func (c *Console) rollSum(ctx context.Context, player int) (int, error) {
	for {
		line, err := c.prompt(ctx, fmt.Sprintf("Player %d, enter the sum of two dice (%d-%d): ", player, tally.MinSum, tally.MaxSum))
		if err != nil {
			return 0, err
		}
		sum, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			c.logger.Debug("Rejected non-numeric roll", "player", player, "input", line)
			fmt.Fprintln(c.out, "Invalid input. Please enter a number.")
			continue
		}
		if !tally.Valid(sum) {
			c.logger.Debug("Rejected out of range roll", "player", player, "sum", sum)
			fmt.Fprintf(c.out, "Invalid sum. Must be between %d and %d.\n", tally.MinSum, tally.MaxSum)
			continue
		}
		return sum, nil
	}
}

func (c *Console) runManual(ctx context.Context, sess *session.Session) error {
	fmt.Fprintln(c.out, "\nManual Mode: Each player enters the sum of their dice.")
	fmt.Fprintf(c.out, "Interpretation appears after %d total rolls.\n\n", sess.MinRolls())

	for {
		sum, err := c.rollSum(ctx, sess.CurrentPlayer())
		if err != nil {
			if errors.Is(err, errStopped) {
				c.finish(sess)
				return nil
			}
			return err
		}

		turn, err := sess.Roll(sum)
		if err != nil {
			return err
		}
		c.logger.Debug("Recorded roll", "player", turn.Player, "round", turn.Round, "sum", sum)

		fmt.Fprintln(c.out)
		report.WriteEmpirical(c.out, sess.Sink().Empirical())
		if sess.ReportReady() {
			r := sess.Sink().Deviations(c.config.Threshold)
			report.WriteDeviations(c.out, r)
			report.WriteInterpretation(c.out, r)
		}
	}
}

func (c *Console) runAutomatic(ctx context.Context, sess *session.Session) error {
	simConfig := c.config.Simulator
	if simConfig.Logger == nil {
		simConfig.Logger = c.config.Logger
	}
	sim := simulator.New(simConfig)

	_, err := sim.Run(ctx, sess, simulator.Hooks{
		RoundStarted: func(round, rounds int) {
			if round == 1 {
				fmt.Fprintf(c.out, "\nAutomatic Mode: Simulating %d rounds for %d players...\n\n", rounds, sess.Players())
			} else {
				fmt.Fprintln(c.out)
			}
			fmt.Fprintf(c.out, "--- Round %d ---\n", round)
		},
		Rolled: func(turn session.Turn, sum int) {
			fmt.Fprintf(c.out, "Player %d rolled a %d\n", turn.Player, sum)
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.finish(sess)
			return nil
		}
		return err
	}

	fmt.Fprintln(c.out)
	report.WriteFull(c.out, sess.Sink(), c.config.Threshold, true)
	return nil
}

// finish prints the closing report after the user stops the game
func (c *Console) finish(sess *session.Session) {
	c.logger.Info("Game stopped by user", "rolls", sess.Total())
	fmt.Fprintln(c.out, "\nProgram terminated by user.")
	report.WriteFull(c.out, sess.Sink(), c.config.Threshold, sess.ReportReady())
}

func (c *Console) prompt(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(c.out, msg)
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", errStopped
		}
		return line, nil
	case <-ctx.Done():
		return "", errStopped
	}
}

// readLines delivers lines from r until EOF or done is closed. Reads from a
// terminal can't be interrupted, so the goroutine is left to exit on its own.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
