package evolve

import (
	"math"
	"math/rand"
)

// Selector draws a rank in [0, n) from a population sorted best first.
// Implementations must not retain rng.
type Selector interface {
	Pick(n int, rng *rand.Rand) int
}

// SelectorFunc adapts a plain function to Selector.
type SelectorFunc func(n int, rng *rand.Rand) int

// Pick calls f.
func (f SelectorFunc) Pick(n int, rng *rand.Rand) int { return f(n, rng) }

// RankBias maps u ~ U[0,1) to ⌊(1 − √(1 − u))·n⌋. The density falls
// linearly from rank 0 to rank n−1, and every rank keeps a nonzero chance.
type RankBias struct{}

// Pick implements Selector. The result is clamped to n−1.
func (RankBias) Pick(n int, rng *rand.Rand) int {
	u := rng.Float64()
	i := int((1 - math.Sqrt(1-u)) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Uniform picks every rank with the same probability.
type Uniform struct{}

// Pick implements Selector.
func (Uniform) Pick(n int, rng *rand.Rand) int {
	return rng.Intn(n)
}

// pickParents draws two distinct ranks. n must be at least 2.
// Out-of-range picks from a custom Selector are folded into [0, n).
func pickParents(s Selector, n int, rng *rand.Rand) (int, int) {
	a := clampRank(s.Pick(n, rng), n)
	b := clampRank(s.Pick(n, rng), n)
	for tries := 0; b == a; tries++ {
		if tries >= 64 {
			// a degenerate selector keeps returning a; fall back to a uniform redraw
			b = (a + 1 + rng.Intn(n-1)) % n
			break
		}
		b = clampRank(s.Pick(n, rng), n)
	}
	return a, b
}

func clampRank(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}
