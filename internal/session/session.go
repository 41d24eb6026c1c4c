// Package session tracks whose turn it is and when a tally has enough rolls
// to be worth interpreting.
package session

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/dicetracker/internal/tally"
)

// DefaultMinRollsPerPlayer is how many rolls each player makes before the
// deviation report is shown
const DefaultMinRollsPerPlayer = 3

// ErrInvalidPlayers is returned for a player count below one or above
// MaxPlayers
var ErrInvalidPlayers = errors.New("invalid player count")

// MaxPlayers returns the largest player count whose report threshold
// (players * minRollsPerPlayer) fits in an int
func MaxPlayers(minRollsPerPlayer int) int {
	if minRollsPerPlayer <= 0 {
		minRollsPerPlayer = DefaultMinRollsPerPlayer
	}
	return math.MaxInt / minRollsPerPlayer
}

// Turn identifies a single roll within a game
type Turn struct {
	Player int // 1-based
	Round  int // 1-based
}

// Session owns the tally for one game and rotates turns between players
type Session struct {
	sink    tally.Sink
	players int
	minRoll int

	player int
	round  int
	total  int
}

// New creates a session for players people. minRollsPerPlayer <= 0 uses
// DefaultMinRollsPerPlayer. A nil sink gets a fresh tally.Engine.
func New(players, minRollsPerPlayer int, sink tally.Sink) (*Session, error) {
	if minRollsPerPlayer <= 0 {
		minRollsPerPlayer = DefaultMinRollsPerPlayer
	}
	if players < 1 {
		return nil, fmt.Errorf("%w: must be at least 1 player, got %d", ErrInvalidPlayers, players)
	}
	if limit := MaxPlayers(minRollsPerPlayer); players > limit {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrInvalidPlayers, players, limit)
	}
	if sink == nil {
		sink = tally.NewEngine()
	}
	return &Session{
		sink:    sink,
		players: players,
		minRoll: minRollsPerPlayer,
		player:  1,
		round:   1,
	}, nil
}

// Roll records sum for the current player and passes the turn on. Rejected
// rolls leave the turn where it was.
func (s *Session) Roll(sum int) (Turn, error) {
	turn := Turn{Player: s.player, Round: s.round}
	if err := s.sink.Record(sum); err != nil {
		return turn, fmt.Errorf("player %d: %w", s.player, err)
	}
	s.total++
	s.player++
	if s.player > s.players {
		s.player = 1
		s.round++
	}
	return turn, nil
}

// Sink returns the underlying tally
func (s *Session) Sink() tally.Sink {
	return s.sink
}

// Players returns the number of players
func (s *Session) Players() int {
	return s.players
}

// CurrentPlayer returns the 1-based player whose roll is next
func (s *Session) CurrentPlayer() int {
	return s.player
}

// Round returns the 1-based round of the next roll
func (s *Session) Round() int {
	return s.round
}

// Total returns the number of rolls accepted by this session
func (s *Session) Total() int {
	return s.total
}

// MinRolls returns the roll count at which the deviation report is shown
func (s *Session) MinRolls() int {
	return s.players * s.minRoll
}

// ReportReady reports whether enough rolls have been made to interpret
// the deviations
func (s *Session) ReportReady() bool {
	return s.total >= s.MinRolls()
}

// Reset clears the tally and returns the turn to player one, round one
func (s *Session) Reset() {
	s.sink.Reset()
	s.player = 1
	s.round = 1
	s.total = 0
}
