package evolve

import (
	"math/rand"

	"github.com/katalvlaran/carcassonne/tile"
)

// Genome is an ordered sequence of placements, one per catalogue template.
// Gene i always carries template i; positions may collide.
type Genome []tile.Placement

// Clone returns an independent copy of g.
func (g Genome) Clone() Genome {
	return append(Genome(nil), g...)
}

// RandomGenome places every template at a uniform random cell with a uniform
// random orientation.
func RandomGenome(templates []*tile.Template, width, height int, rng *rand.Rand) Genome {
	g := make(Genome, len(templates))
	for i, t := range templates {
		x, y := randomPos(rng, width, height)
		g[i] = tile.Placement{
			Template:    t,
			Index:       i,
			Pos:         tile.Pos{X: x, Y: y},
			Orientation: tile.Sides[rng.Intn(4)],
		}
	}
	return g
}

// Crossover cuts both parents at a random index in [0, len) and joins the
// prefix of a with the suffix of b. Parents must have the same length.
func Crossover(a, b Genome, rng *rand.Rand) Genome {
	if len(a) == 0 {
		return Genome{}
	}
	cut := rng.Intn(len(a))
	child := make(Genome, 0, len(a))
	child = append(child, a[:cut]...)
	return append(child, b[cut:]...)
}

// Mutate moves one random gene to a random cell with probability rate,
// re-rolling its orientation when orientation is set. It reports whether a
// gene changed.
func Mutate(g Genome, rate float64, width, height int, orientation bool, rng *rand.Rand) bool {
	if len(g) == 0 || rng.Float64() >= rate {
		return false
	}
	i := rng.Intn(len(g))
	x, y := randomPos(rng, width, height)
	g[i].Pos = tile.Pos{X: x, Y: y}
	if orientation {
		g[i].Orientation = tile.Sides[rng.Intn(4)]
	}
	return true
}
