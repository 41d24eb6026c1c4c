// Package report renders tally tables as plain, optionally styled, text.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/dicetracker/internal/tally"
	"github.com/muesli/termenv"
)

// NotEnoughRolls is printed in place of the deviation tables before a
// session has enough rolls to interpret
const NotEnoughRolls = "Not enough rolls to calculate deviations yet."

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	luckyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	rareStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// SetColor toggles ANSI styling for everything this package renders
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// WriteEmpirical writes the count and observed probability of every sum
func WriteEmpirical(w io.Writer, rows []tally.Frequency) {
	fmt.Fprintln(w, headerStyle.Render("--- Empirical Probability Table ---"))
	for _, row := range rows {
		fmt.Fprintf(w, "Sum %d: Count = %d, Probability = %.4f\n", row.Sum, row.Count, row.Probability)
	}
	fmt.Fprintln(w)
}

// WriteDeviations writes theoretical, empirical and absolute deviation
// columns for every sum
func WriteDeviations(w io.Writer, r tally.Report) {
	fmt.Fprintln(w, headerStyle.Render("--- Deviation from Theoretical Probabilities ---"))
	fmt.Fprintf(w, "%4s %12s %12s %10s\n", "Sum", "Theoretical", "Empirical", "Abs Dev")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%4d %12.4f %12.4f %10.4f\n", row.Sum, row.Theoretical, row.Empirical, row.Deviation)
	}
	fmt.Fprintln(w)
}

// WriteInterpretation writes one line per lucky or rare sum
func WriteInterpretation(w io.Writer, r tally.Report) {
	fmt.Fprintln(w, headerStyle.Render("--- Interpretation ---"))
	for _, line := range Interpret(r) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// Interpret returns the styled interpretation lines for r
func Interpret(r tally.Report) []string {
	notable := r.Notable()
	if len(notable) == 0 {
		return []string{mutedStyle.Render("No lucky or unlucky numbers yet!")}
	}

	lines := make([]string, 0, len(notable))
	for _, row := range notable {
		switch row.Class {
		case tally.Lucky:
			lines = append(lines, luckyStyle.Render(fmt.Sprintf("%d is unusually lucky!", row.Sum)))
		case tally.Rare:
			lines = append(lines, rareStyle.Render(fmt.Sprintf("%d is surprisingly rare!", row.Sum)))
		}
	}
	return lines
}

// WriteFull writes the empirical table and, when ready, the deviation
// table and its interpretation. The chi-squared line is included if sink
// can compute one.
func WriteFull(w io.Writer, sink tally.Sink, threshold float64, ready bool) {
	WriteEmpirical(w, sink.Empirical())
	if !ready {
		fmt.Fprintln(w, NotEnoughRolls)
		return
	}

	r := sink.Deviations(threshold)
	WriteDeviations(w, r)
	WriteInterpretation(w, r)

	if chi, ok := sink.(interface{ ChiSquared() float64 }); ok && r.Total > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Chi-squared: %.4f over %d rolls (%d degrees of freedom)",
			chi.ChiSquared(), r.Total, tally.Buckets-1)))
		fmt.Fprintln(w)
	}
}
