// RNG helpers for the search.
//
// Every random decision of a run (initial genomes, parent draws, cut points,
// mutations) comes from streams derived here, so one seed reproduces a run.
//
// Concurrency:
//   - math/rand.Rand is not goroutine-safe. Streams stay on the search
//     goroutine; evaluation workers never draw random numbers.

package evolve

import "math/rand"

// defaultRNGSeed replaces seed 0, keeping the zero Options reproducible.
const defaultRNGSeed int64 = 1

// Stream identifiers for deriveRNG, one per phase of Run.
const (
	// streamInit feeds RandomGenome for generation 1.
	streamInit uint64 = iota + 1
	// streamBreed feeds selection, crossover and mutation.
	streamBreed
)

// rngFromSeed returns the engine's base generator.
// Policy: seed==0 ⇒ defaultRNGSeed; any other seed is used as given.
//
// Complexity: O(1).
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed with a stream id through the SplitMix64
// finalizer, so neighbouring stream ids give unrelated seeds.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// deriveRNG returns the generator for one phase of a run (streamInit,
// streamBreed). base.Int63 is consumed once per call, so two calls with the
// same stream id still differ. A nil base uses defaultRNGSeed as the parent.
//
// Complexity: O(1).
func deriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	parent := defaultRNGSeed
	if base != nil {
		parent = base.Int63()
	}
	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// randomPos returns a uniform cell of a width×height board.
//
// Complexity: O(1).
func randomPos(rng *rand.Rand, width, height int) (x, y int) {
	return rng.Intn(width), rng.Intn(height)
}
