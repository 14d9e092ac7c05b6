package evolve

import (
	"fmt"

	"github.com/katalvlaran/carcassonne/tile"
)

// validate checks the catalogue against the options in stages, so the first
// reported error names the most basic problem.
func validate(templates []*tile.Template, opts Options) error {
	// Stage 1: errors recorded while applying options.
	if opts.err != nil {
		return opts.err
	}

	// Stage 2: catalogue shape.
	if len(templates) == 0 {
		return ErrEmptyCatalogue
	}
	for i, t := range templates {
		if t == nil {
			return fmt.Errorf("%w: index %d", ErrNilTemplate, i)
		}
	}

	// Stage 3: board geometry; the resolver needs a free cell for every gene.
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, opts.Width, opts.Height)
	}
	if opts.Width*opts.Height < len(templates) {
		return fmt.Errorf("%w: %dx%d board for %d tiles",
			ErrBoardTooSmall, opts.Width, opts.Height, len(templates))
	}

	// Stage 4: search parameters.
	if opts.Population < 2 {
		return fmt.Errorf("%w: got %d", ErrPopulationTooSmall, opts.Population)
	}
	if !(opts.MutationRate >= 0 && opts.MutationRate < 1) {
		return fmt.Errorf("%w: got %v", ErrMutationRate, opts.MutationRate)
	}

	return nil
}
