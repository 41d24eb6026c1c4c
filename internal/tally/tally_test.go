package tally

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAll(t *testing.T, e *Engine, sums ...int) {
	t.Helper()
	for _, s := range sums {
		require.NoError(t, e.Record(s))
	}
}

func repeat(sum, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = sum
	}
	return out
}

func TestTheoreticalDistribution(t *testing.T) {
	var total float64
	var ways int
	for _, s := range Sums() {
		total += Theoretical(s)
		ways += Ways(s)
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.Equal(t, Outcomes, ways)

	assert.InDelta(t, 6.0/36, Theoretical(7), 1e-12)
	assert.InDelta(t, 1.0/36, Theoretical(2), 1e-12)
	assert.InDelta(t, 1.0/36, Theoretical(12), 1e-12)
	assert.Zero(t, Theoretical(1))
	assert.Zero(t, Theoretical(13))
	assert.Len(t, Sums(), Buckets)
}

func TestEngine_Empty(t *testing.T) {
	e := NewEngine()

	rows := e.Empirical()
	require.Len(t, rows, Buckets)
	for i, row := range rows {
		assert.Equal(t, MinSum+i, row.Sum)
		assert.Zero(t, row.Count)
		assert.Zero(t, row.Probability)
	}
	assert.Zero(t, e.Total())
	assert.Zero(t, e.ChiSquared())
	assert.NoError(t, e.Validate())
}

func TestEngine_RecordKeepsLedger(t *testing.T) {
	e := NewEngine()
	rolls := []int{7, 6, 8, 7, 2, 12, 11, 3, 7, 9, 10, 4, 5, 6}

	for i, r := range rolls {
		require.NoError(t, e.Record(r))

		sum := 0
		for _, row := range e.Empirical() {
			sum += row.Count
		}
		assert.Equal(t, i+1, sum)
		assert.Equal(t, i+1, e.Total())
		require.NoError(t, e.Validate())
	}
	assert.Equal(t, 3, e.Count(7))
	assert.Equal(t, 2, e.Count(6))
}

func TestEngine_RejectsInvalidRolls(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, 7, 8)

	for _, sum := range []int{1, 13, 0, -4, 100} {
		t.Run(strconv.Itoa(sum), func(t *testing.T) {
			err := e.Record(sum)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRoll))
		})
	}

	assert.Equal(t, 2, e.Total())
	assert.Equal(t, 1, e.Count(7))
	assert.Equal(t, 1, e.Count(8))
	assert.NoError(t, e.Validate())
}

func TestEngine_AllSevens(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, repeat(7, 10)...)

	report := e.Deviations(DefaultThreshold)
	require.Len(t, report.Rows, Buckets)

	seven := report.Rows[7-MinSum]
	assert.Equal(t, 7, seven.Sum)
	assert.InDelta(t, 1.0, seven.Empirical, 1e-12)
	assert.InDelta(t, 0.1667, seven.Theoretical, 1e-4)
	assert.InDelta(t, 0.8333, seven.Deviation, 1e-4)
	assert.Equal(t, Lucky, seven.Class)
}

func TestEngine_AllTwos(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, repeat(2, 10)...)

	report := e.Deviations(DefaultThreshold)
	two := report.Rows[0]
	assert.InDelta(t, 1.0, two.Empirical, 1e-12)
	assert.InDelta(t, 0.0278, two.Theoretical, 1e-4)
	assert.Equal(t, Lucky, two.Class)

	for _, row := range report.Rows[1:] {
		assert.Zero(t, row.Empirical, "sum %d", row.Sum)
		if row.Theoretical >= DefaultThreshold {
			assert.Equal(t, Rare, row.Class, "sum %d", row.Sum)
		} else {
			assert.Equal(t, Normal, row.Class, "sum %d", row.Sum)
		}
	}
	for _, sum := range []int{6, 7, 8} {
		assert.Equal(t, Rare, report.Rows[sum-MinSum].Class)
	}
	assert.Equal(t, Normal, report.Rows[12-MinSum].Class)
}

func TestEngine_ThresholdIsInclusive(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, 7)

	// Sum 12 was never rolled so its deviation is exactly its theoretical probability
	threshold := Theoretical(12)
	report := e.Deviations(threshold)
	row := report.Rows[12-MinSum]
	assert.Equal(t, threshold, row.Deviation)
	assert.Equal(t, Rare, row.Class)

	report = e.Deviations(math.Nextafter(threshold, 1))
	assert.Equal(t, Normal, report.Rows[12-MinSum].Class)
}

func TestEngine_NoDeviationsWhenEmpty(t *testing.T) {
	e := NewEngine()
	report := e.Deviations(DefaultThreshold)

	for _, row := range report.Rows {
		assert.Zero(t, row.Empirical)
		assert.InDelta(t, row.Theoretical, row.Deviation, 1e-12)
	}
	assert.Zero(t, report.Total)
}

func TestReport_Notable(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, repeat(7, 10)...)

	notable := e.Deviations(DefaultThreshold).Notable()

	var sums []int
	for _, row := range notable {
		assert.NotEqual(t, Normal, row.Class)
		sums = append(sums, row.Sum)
	}
	// 2 and 12 sit below the threshold even at zero count
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11}, sums)

	assert.Empty(t, NewEngine().Deviations(1.0).Notable())
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, 7, 7, 3, 11, 12, 2)
	e.Reset()

	for _, row := range e.Empirical() {
		assert.Zero(t, row.Count)
		assert.Zero(t, row.Probability)
	}
	assert.Zero(t, e.Total())
	assert.NoError(t, e.Validate())

	require.NoError(t, e.Record(5))
	assert.Equal(t, 1, e.Total())
}

func TestEngine_ChiSquared(t *testing.T) {
	e := NewEngine()
	for _, s := range Sums() {
		recordAll(t, e, repeat(s, Ways(s))...)
	}
	assert.InDelta(t, 0, e.ChiSquared(), 1e-9)

	skewed := NewEngine()
	recordAll(t, skewed, repeat(7, 36)...)
	assert.Greater(t, skewed.ChiSquared(), 100.0)
}

func TestEngine_ValidateDetectsMismatch(t *testing.T) {
	e := NewEngine()
	recordAll(t, e, 4, 5)
	e.total = 3

	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger mismatch")
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "lucky", Lucky.String())
	assert.Equal(t, "rare", Rare.String())
	assert.Equal(t, "normal", Normal.String())
}
