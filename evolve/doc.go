// Package evolve searches for a gap-free, fully matched tile layout with a
// generational genetic algorithm.
//
// What:
//
//   - A Genome holds one Placement per catalogue template, in catalogue order.
//     Positions may collide; package resolve turns a genome into a scorable
//     layout before every evaluation.
//   - Each generation is evaluated (in parallel, one private board per
//     individual), stable-sorted ascending by score and published. Parents are
//     then drawn with a rank-biased Selector, bred by single-point crossover
//     and mutated.
//   - The search stops when the best score reaches 0, when the context is
//     cancelled (checked once per generation) or when the optional generation
//     budget is spent.
//
// Progress:
//
//	After every ranking the engine publishes a Progress value. Progress()
//	returns a one-slot mailbox that always holds the latest value; the worker
//	never blocks on a slow reader. Observers registered with Observe are
//	called synchronously on the worker and must return quickly.
//
// Determinism:
//
//	All randomness comes from one *rand.Rand seeded by Options.Seed (0 selects
//	a fixed default seed). Evaluation order does not affect results, so a run
//	is reproducible for a given seed regardless of the worker count.
//
// Errors:
//
//   - ErrEmptyCatalogue, ErrNilTemplate: the catalogue cannot be scored.
//   - ErrBadDimensions, ErrBoardTooSmall: the board cannot hold the catalogue.
//   - ErrPopulationTooSmall: two distinct parents need at least two individuals.
//   - ErrMutationRate: the rate is outside [0, 1).
//   - ErrOptionViolation: an Option received an invalid value.
//   - ErrRunning: Run was called while another Run is in progress.
//
// All configuration errors are reported by New, before the loop starts.
package evolve
