package tally

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRoll is returned when a recorded sum falls outside 2..12
var ErrInvalidRoll = errors.New("invalid roll")

// Class labels how a sum's empirical frequency compares to theory
type Class int

const (
	Normal Class = iota
	Lucky        // observed more often than expected
	Rare         // observed less often than expected
)

func (c Class) String() string {
	switch c {
	case Lucky:
		return "lucky"
	case Rare:
		return "rare"
	default:
		return "normal"
	}
}

// Frequency is one row of the empirical table
type Frequency struct {
	Sum         int
	Count       int
	Probability float64
}

// Deviation is one row of the deviation report
type Deviation struct {
	Sum         int
	Theoretical float64
	Empirical   float64
	Deviation   float64 // abs(Empirical - Theoretical)
	Class       Class
}

// Report holds a deviation row for every sum in ascending order
type Report struct {
	Threshold float64
	Total     int
	Rows      []Deviation
}

// Notable returns the rows classified as lucky or rare, in sum order
func (r Report) Notable() []Deviation {
	var notable []Deviation
	for _, row := range r.Rows {
		if row.Class != Normal {
			notable = append(notable, row)
		}
	}
	return notable
}

// Sink accepts rolls and reports on them. Both drivers depend only on Sink.
type Sink interface {
	Record(sum int) error
	Empirical() []Frequency
	Deviations(threshold float64) Report
	Reset()
}

// Engine tallies two-dice sums. The zero value is ready to use and has all
// eleven buckets at zero.
type Engine struct {
	counts [Buckets]int
	total  int
}

var _ Sink = (*Engine)(nil)

// NewEngine returns an empty engine
func NewEngine() *Engine {
	return &Engine{}
}

// Record adds one roll of sum
func (e *Engine) Record(sum int) error {
	if !Valid(sum) {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidRoll, sum, MinSum, MaxSum)
	}
	e.counts[sum-MinSum]++
	e.total++
	return nil
}

// Total returns the number of rolls recorded since the last reset
func (e *Engine) Total() int {
	return e.total
}

// Count returns how many times sum has been rolled
func (e *Engine) Count(sum int) int {
	if !Valid(sum) {
		return 0
	}
	return e.counts[sum-MinSum]
}

// probability returns the empirical probability of sum, 0 when nothing is recorded
func (e *Engine) probability(sum int) float64 {
	if e.total == 0 {
		return 0
	}
	return float64(e.Count(sum)) / float64(e.total)
}

// Empirical returns count and observed probability for every sum
func (e *Engine) Empirical() []Frequency {
	rows := make([]Frequency, 0, Buckets)
	for sum := MinSum; sum <= MaxSum; sum++ {
		rows = append(rows, Frequency{
			Sum:         sum,
			Count:       e.Count(sum),
			Probability: e.probability(sum),
		})
	}
	return rows
}

// Deviations compares observed probabilities against theory. A sum is
// flagged when its deviation is at least threshold.
func (e *Engine) Deviations(threshold float64) Report {
	report := Report{
		Threshold: threshold,
		Total:     e.total,
		Rows:      make([]Deviation, 0, Buckets),
	}
	for sum := MinSum; sum <= MaxSum; sum++ {
		theo := Theoretical(sum)
		emp := e.probability(sum)
		dev := math.Abs(emp - theo)

		class := Normal
		if dev >= threshold {
			switch {
			case emp > theo:
				class = Lucky
			case emp < theo:
				class = Rare
			}
		}

		report.Rows = append(report.Rows, Deviation{
			Sum:         sum,
			Theoretical: theo,
			Empirical:   emp,
			Deviation:   dev,
			Class:       class,
		})
	}
	return report
}

// Reset clears every bucket and the roll total
func (e *Engine) Reset() {
	e.counts = [Buckets]int{}
	e.total = 0
}

// ChiSquared returns Pearson's chi-squared statistic of the observed counts
// against the fair-dice expectation. It is 0 when nothing is recorded.
func (e *Engine) ChiSquared() float64 {
	if e.total == 0 {
		return 0
	}
	var chi float64
	for sum := MinSum; sum <= MaxSum; sum++ {
		expected := float64(e.total) * Theoretical(sum)
		diff := float64(e.Count(sum)) - expected
		chi += diff * diff / expected
	}
	return chi
}

// Validate checks that the buckets agree with the roll total
func (e *Engine) Validate() error {
	sum := 0
	for i, c := range e.counts {
		if c < 0 {
			return fmt.Errorf("negative count %d for sum %d", c, i+MinSum)
		}
		sum += c
	}
	if sum != e.total {
		return fmt.Errorf("ledger mismatch: buckets total %d, recorded %d", sum, e.total)
	}
	return nil
}
