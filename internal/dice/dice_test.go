package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollerDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for range 100 {
		require.Equal(t, a.RollSum(), b.RollSum())
	}
}

func TestRollerSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for range 50 {
		if a.Die() == b.Die() {
			same++
		}
	}
	assert.Less(t, same, 50)
}

func TestRollRanges(t *testing.T) {
	r := New(7)
	seen := make(map[int]bool)
	for range 5000 {
		a, b := r.Roll()
		require.GreaterOrEqual(t, a, 1)
		require.LessOrEqual(t, a, Faces)
		require.GreaterOrEqual(t, b, 1)
		require.LessOrEqual(t, b, Faces)

		sum := r.RollSum()
		require.GreaterOrEqual(t, sum, 2)
		require.LessOrEqual(t, sum, 12)
		seen[sum] = true
	}
	assert.Len(t, seen, 11, "every sum should appear over 5000 rolls")
}

func TestIntN(t *testing.T) {
	r := New(99)
	seen := make(map[int]bool)
	for range 500 {
		n := r.IntN(15, 17)
		require.GreaterOrEqual(t, n, 15)
		require.LessOrEqual(t, n, 17)
		seen[n] = true
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, 4, r.IntN(4, 4))
	assert.Equal(t, 9, r.IntN(9, 3))
}
