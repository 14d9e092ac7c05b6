package evolve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Sentinel errors for engine construction and execution.
var (
	// ErrEmptyCatalogue is returned when no templates are supplied.
	ErrEmptyCatalogue = errors.New("evolve: empty tile catalogue")

	// ErrNilTemplate is returned when the catalogue contains a nil template.
	ErrNilTemplate = errors.New("evolve: nil template in catalogue")

	// ErrBadDimensions is returned for a non-positive board width or height.
	ErrBadDimensions = errors.New("evolve: board dimensions must be positive")

	// ErrBoardTooSmall is returned when the board has fewer cells than templates.
	ErrBoardTooSmall = errors.New("evolve: board smaller than catalogue")

	// ErrPopulationTooSmall is returned for a population below two individuals.
	ErrPopulationTooSmall = errors.New("evolve: population must hold at least two individuals")

	// ErrMutationRate is returned for a mutation probability outside [0, 1).
	ErrMutationRate = errors.New("evolve: mutation rate must be in [0, 1)")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("evolve: invalid option supplied")

	// ErrRunning is returned by Run while another Run is in progress.
	ErrRunning = errors.New("evolve: engine already running")
)

// Defaults match the classic setup: a 15×15 board, 50 individuals and an even
// mutation chance.
const (
	DefaultPopulation   = 50
	DefaultWidth        = 15
	DefaultHeight       = 15
	DefaultMutationRate = 0.5
)

// Option configures an Engine via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// Options holds the engine parameters.
type Options struct {
	// Population is the fixed number of individuals per generation.
	Population int

	// Width and Height are the board dimensions.
	Width, Height int

	// MutationRate is the probability that an offspring gets one gene moved.
	MutationRate float64

	// MutateOrientation also re-rolls the orientation of a mutated gene.
	MutateOrientation bool

	// Seed drives all randomness. 0 selects a fixed default seed.
	Seed int64

	// Workers bounds parallel evaluation. 1 evaluates sequentially.
	Workers int

	// MaxGenerations stops the run after this many generations; 0 means no limit.
	MaxGenerations int

	// Selector draws parent ranks. Defaults to RankBias.
	Selector Selector

	// Logger receives per-generation Debug records and an Info record on
	// convergence. Defaults to a discarding logger.
	Logger *slog.Logger

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns the classic configuration with one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Population:        DefaultPopulation,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		MutationRate:      DefaultMutationRate,
		MutateOrientation: true,
		Seed:              0,
		Workers:           runtime.GOMAXPROCS(0),
		MaxGenerations:    0,
		Selector:          RankBias{},
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPopulation sets the population size. Values below 2 are rejected by New.
func WithPopulation(n int) Option {
	return func(o *Options) {
		o.Population = n
	}
}

// WithBoard sets the board dimensions.
func WithBoard(width, height int) Option {
	return func(o *Options) {
		o.Width, o.Height = width, height
	}
}

// WithMutationRate sets the mutation probability.
func WithMutationRate(p float64) Option {
	return func(o *Options) {
		o.MutationRate = p
	}
}

// WithMutateOrientation toggles re-rolling the orientation of mutated genes.
func WithMutateOrientation(on bool) Option {
	return func(o *Options) {
		o.MutateOrientation = on
	}
}

// WithSeed sets the random seed. 0 selects the fixed default seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithWorkers bounds parallel evaluation.
//
//	n > 0: at most n concurrent evaluations
//	n <= 0: invalid option → ErrOptionViolation
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: Workers must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithMaxGenerations stops the search after n generations.
//
//	n > 0: limit to n generations
//	n == 0: explicit no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxGenerations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxGenerations cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxGenerations = n
	}
}

// WithSelector replaces the parent selection strategy. nil is ignored.
func WithSelector(s Selector) Option {
	return func(o *Options) {
		if s != nil {
			o.Selector = s
		}
	}
}

// WithLogger sets the structured logger. nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
