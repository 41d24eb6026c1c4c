package report

import (
	"strings"
	"testing"

	"github.com/lox/dicetracker/internal/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetColor(false)
}

func engineWith(t *testing.T, sums ...int) *tally.Engine {
	t.Helper()
	e := tally.NewEngine()
	for _, s := range sums {
		require.NoError(t, e.Record(s))
	}
	return e
}

func TestWriteEmpirical(t *testing.T) {
	var b strings.Builder
	WriteEmpirical(&b, engineWith(t, 7, 7, 2, 12).Empirical())

	out := b.String()
	assert.Contains(t, out, "--- Empirical Probability Table ---")
	assert.Contains(t, out, "Sum 2: Count = 1, Probability = 0.2500")
	assert.Contains(t, out, "Sum 7: Count = 2, Probability = 0.5000")
	assert.Contains(t, out, "Sum 3: Count = 0, Probability = 0.0000")
	assert.Equal(t, 11, strings.Count(out, "Sum "))
}

func TestWriteEmptyEmpirical(t *testing.T) {
	var b strings.Builder
	WriteEmpirical(&b, tally.NewEngine().Empirical())
	assert.NotContains(t, b.String(), "NaN")
	assert.Equal(t, 11, strings.Count(b.String(), "Probability = 0.0000"))
}

func TestWriteDeviations(t *testing.T) {
	e := engineWith(t, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7)
	var b strings.Builder
	WriteDeviations(&b, e.Deviations(tally.DefaultThreshold))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "--- Deviation from Theoretical Probabilities ---", lines[0])
	assert.Equal(t, " Sum  Theoretical    Empirical    Abs Dev", lines[1])
	assert.Equal(t, "   7       0.1667       1.0000     0.8333", lines[7])
	assert.Equal(t, "   2       0.0278       0.0000     0.0278", lines[2])
}

func TestInterpret(t *testing.T) {
	lines := Interpret(engineWith(t, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7).Deviations(tally.DefaultThreshold))
	assert.Contains(t, lines, "7 is unusually lucky!")
	assert.Contains(t, lines, "6 is surprisingly rare!")
	assert.NotContains(t, lines, "12 is surprisingly rare!")

	// A perfectly fair tally flags nothing
	fair := tally.NewEngine()
	for _, s := range tally.Sums() {
		for range tally.Ways(s) {
			require.NoError(t, fair.Record(s))
		}
	}
	assert.Equal(t, []string{"No lucky or unlucky numbers yet!"}, Interpret(fair.Deviations(tally.DefaultThreshold)))
}

func TestWriteFull(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		var b strings.Builder
		WriteFull(&b, engineWith(t, 4), tally.DefaultThreshold, false)
		out := b.String()
		assert.Contains(t, out, "Empirical Probability Table")
		assert.Contains(t, out, NotEnoughRolls)
		assert.NotContains(t, out, "Deviation from Theoretical")
	})

	t.Run("ready", func(t *testing.T) {
		var b strings.Builder
		WriteFull(&b, engineWith(t, 2, 2, 2), tally.DefaultThreshold, true)
		out := b.String()
		assert.Contains(t, out, "Deviation from Theoretical")
		assert.Contains(t, out, "--- Interpretation ---")
		assert.Contains(t, out, "2 is unusually lucky!")
		assert.Contains(t, out, "Chi-squared:")
		assert.Contains(t, out, "over 3 rolls (10 degrees of freedom)")
		assert.NotContains(t, out, NotEnoughRolls)
	})
}
