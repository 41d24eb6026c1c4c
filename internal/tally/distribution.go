package tally

const (
	// MinSum is the smallest sum two six-sided dice can produce
	MinSum = 2
	// MaxSum is the largest sum two six-sided dice can produce
	MaxSum = 12
	// Buckets is the number of distinct sums
	Buckets = MaxSum - MinSum + 1

	// Outcomes is the number of ordered (die a, die b) pairs
	Outcomes = 36

	// DefaultThreshold is the minimum absolute deviation for a sum to be notable
	DefaultThreshold = 0.05
)

// ways[i] holds the number of ordered pairs producing sum MinSum+i
var ways = [Buckets]int{1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}

// Valid reports whether sum can be produced by two six-sided dice
func Valid(sum int) bool {
	return sum >= MinSum && sum <= MaxSum
}

// Ways returns the number of ordered die pairs that produce sum, or 0 for
// sums outside 2..12
func Ways(sum int) int {
	if !Valid(sum) {
		return 0
	}
	return ways[sum-MinSum]
}

// Theoretical returns the exact probability of rolling sum with two fair dice
func Theoretical(sum int) float64 {
	return float64(Ways(sum)) / Outcomes
}

// Sums returns every valid sum in ascending order
func Sums() []int {
	sums := make([]int, 0, Buckets)
	for s := MinSum; s <= MaxSum; s++ {
		sums = append(sums, s)
	}
	return sums
}
