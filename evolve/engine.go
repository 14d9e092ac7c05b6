package evolve

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/resolve"
	"github.com/katalvlaran/carcassonne/tile"
)

// Individual is one candidate: its genome, the resolved layout and its score.
type Individual struct {
	Genome    Genome
	Resolved  []tile.Placement
	Score     int
	Breakdown fitness.Breakdown
}

// Progress reports one ranked generation.
type Progress struct {
	// Generation counts from 1.
	Generation int
	// Score and Breakdown belong to the generation's best individual.
	Score     int
	Breakdown fitness.Breakdown
	// Worst and Mean summarize the whole generation.
	Worst int
	Mean  float64
	// Board holds the best individual's resolved layout. Each Progress owns
	// its board.
	Board *tile.Board
}

// Result is the outcome of Run.
type Result struct {
	// Best is the lowest-scoring individual seen during the run.
	Best Individual
	// Generations is the number of evaluated generations.
	Generations int
	// Converged is true when Best.Score reached 0.
	Converged bool
}

// Engine runs the generational search over a fixed catalogue.
type Engine struct {
	templates []*tile.Template
	opts      Options
	rng       *rand.Rand

	mailbox *Mailbox

	mu        sync.Mutex
	observers []func(Progress)

	running atomic.Bool
}

// New validates the catalogue and options and returns a ready engine.
// The templates slice is copied; the templates themselves must not change
// while the engine is in use.
func New(templates []*tile.Template, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(templates, o); err != nil {
		return nil, err
	}
	return &Engine{
		templates: append([]*tile.Template(nil), templates...),
		opts:      o,
		rng:       rngFromSeed(o.Seed),
		mailbox:   NewMailbox(),
	}, nil
}

// Options returns the effective configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Progress returns the latest-value mailbox. A receive yields the most
// recent Progress not yet taken; older values are dropped.
func (e *Engine) Progress() <-chan Progress {
	return e.mailbox.C()
}

// Observe registers fn to be called with every Progress on the worker
// goroutine. fn must not block.
func (e *Engine) Observe(fn func(Progress)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.observers = append(e.observers, fn)
	e.mu.Unlock()
}

// Run executes the search until the best score reaches 0, ctx is cancelled
// or the generation budget is spent. On cancellation Run returns the result
// so far together with ctx.Err().
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Result{}, ErrRunning
	}
	defer e.running.Store(false)

	log := e.opts.Logger
	breed := deriveRNG(e.rng, streamBreed)
	pop := e.initial(deriveRNG(e.rng, streamInit))

	var res Result
	for {
		if err := e.evaluate(pop); err != nil {
			return res, err
		}
		sort.SliceStable(pop, func(i, j int) bool { return pop[i].Score < pop[j].Score })
		res.Generations++
		if res.Generations == 1 || pop[0].Score < res.Best.Score {
			res.Best = pop[0]
		}

		p, err := e.progress(res.Generations, pop)
		if err != nil {
			return res, err
		}
		e.publish(p)
		log.Debug("generation ranked",
			"generation", p.Generation,
			"best", p.Score,
			"mean", p.Mean,
			"worst", p.Worst,
			"breakdown", p.Breakdown.String())

		if pop[0].Score == 0 {
			res.Converged = true
			log.Info("converged", "generations", res.Generations)
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			log.Info("search cancelled", "generations", res.Generations, "best", res.Best.Score)
			return res, err
		}
		if e.opts.MaxGenerations > 0 && res.Generations >= e.opts.MaxGenerations {
			log.Info("generation budget spent", "generations", res.Generations, "best", res.Best.Score)
			return res, nil
		}
		pop = e.next(pop, breed)
	}
}

// initial builds the first population from random genomes.
func (e *Engine) initial(rng *rand.Rand) []Individual {
	pop := make([]Individual, e.opts.Population)
	for i := range pop {
		pop[i].Genome = RandomGenome(e.templates, e.opts.Width, e.opts.Height, rng)
	}
	return pop
}

// evaluate resolves and scores every individual. Each task touches only its
// own slot and builds a private board.
func (e *Engine) evaluate(pop []Individual) error {
	w, h := e.opts.Width, e.opts.Height
	p := pool.New().WithMaxGoroutines(e.opts.Workers).WithErrors()
	for i := range pop {
		ind := &pop[i]
		p.Go(func() error {
			resolved, err := resolve.Overlaps(ind.Genome, w, h)
			if err != nil {
				return err
			}
			bd, err := fitness.Evaluate(w, h, resolved)
			if err != nil {
				return err
			}
			ind.Resolved, ind.Breakdown, ind.Score = resolved, bd, bd.Total()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("evolve: evaluation: %w", err)
	}
	return nil
}

// next breeds a full replacement generation from a ranked population.
func (e *Engine) next(ranked []Individual, rng *rand.Rand) []Individual {
	out := make([]Individual, len(ranked))
	for i := range out {
		a, b := pickParents(e.opts.Selector, len(ranked), rng)
		child := Crossover(ranked[a].Genome, ranked[b].Genome, rng)
		Mutate(child, e.opts.MutationRate, e.opts.Width, e.opts.Height, e.opts.MutateOrientation, rng)
		out[i].Genome = child
	}
	return out
}

// progress summarizes a ranked generation.
func (e *Engine) progress(gen int, ranked []Individual) (Progress, error) {
	best := ranked[0]
	b, err := tile.Fill(e.opts.Width, e.opts.Height, best.Resolved)
	if err != nil {
		return Progress{}, fmt.Errorf("evolve: best board: %w", err)
	}
	sum := 0
	for _, ind := range ranked {
		sum += ind.Score
	}
	return Progress{
		Generation: gen,
		Score:      best.Score,
		Breakdown:  best.Breakdown,
		Worst:      ranked[len(ranked)-1].Score,
		Mean:       float64(sum) / float64(len(ranked)),
		Board:      b,
	}, nil
}

// publish replaces the mailbox content with p and notifies observers.
func (e *Engine) publish(p Progress) {
	e.mailbox.Put(p)

	e.mu.Lock()
	obs := slices.Clone(e.observers)
	e.mu.Unlock()
	for _, fn := range obs {
		fn(p)
	}
}
