package dice

import (
	rand "math/rand/v2"
	"time"
)

// Faces on a standard die
const Faces = 6

const goldenRatio64 = 0x9e3779b97f4a7c15

// Roller rolls pairs of six-sided dice
type Roller struct {
	rng *rand.Rand
}

// New returns a Roller whose sequence is fully determined by seed. The two
// PCG seeds are derived with a SplitMix64 finaliser so nearby seeds still
// produce unrelated streams.
func New(seed int64) *Roller {
	u := uint64(seed)
	return &Roller{rng: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

// NewRandom returns a Roller seeded from the wall clock
func NewRandom() *Roller {
	return New(time.Now().UnixNano())
}

// Die returns a single face in 1..6
func (r *Roller) Die() int {
	return r.rng.IntN(Faces) + 1
}

// Roll returns both faces of a two-dice roll
func (r *Roller) Roll() (int, int) {
	return r.Die(), r.Die()
}

// RollSum returns the sum of two dice
func (r *Roller) RollSum() int {
	a, b := r.Roll()
	return a + b
}

// IntN returns a uniform integer in [lo, hi]. It returns lo when hi < lo.
func (r *Roller) IntN(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.IntN(hi-lo+1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
