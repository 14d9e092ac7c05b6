// Package config reads the TOML run file of the carcassonne command.
//
// What:
//
//	A run file groups the search parameters, the run log and the progress
//	stream. Missing keys keep their defaults, unknown keys are rejected so a
//	typo never silently falls back to a default.
//
//	catalogue = "my.tiles"   # empty selects the embedded base game
//	seed      = 0            # 0 lets the command pick a time-based seed
//
//	[search]
//	width = 15
//	height = 15
//	population = 50
//	mutation_rate = 0.5
//	mutate_orientation = true
//	workers = 8
//	max_generations = 0      # 0 means no limit
//
//	[store]
//	path = "runs.db"         # empty disables the run log
//	record_every = 1
//
//	[stream]
//	listen = ":8080"         # empty disables the websocket stream
//
// Errors:
//
//   - ErrUnknownKey for keys the file format does not define.
//   - ErrInvalid for values the engine or the host would reject.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/carcassonne/evolve"
)

// Sentinel errors for run files.
var (
	// ErrUnknownKey is returned when a run file sets an undefined key.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalid is returned when a value is out of range.
	ErrInvalid = errors.New("config: invalid value")
)

// Config is one run file.
type Config struct {
	Catalogue string `toml:"catalogue"`
	Seed      int64  `toml:"seed"`
	Search    Search `toml:"search"`
	Store     Store  `toml:"store"`
	Stream    Stream `toml:"stream"`
}

// Search holds the engine parameters.
type Search struct {
	Width             int     `toml:"width"`
	Height            int     `toml:"height"`
	Population        int     `toml:"population"`
	MutationRate      float64 `toml:"mutation_rate"`
	MutateOrientation bool    `toml:"mutate_orientation"`
	Workers           int     `toml:"workers"`
	MaxGenerations    int     `toml:"max_generations"`
}

// Store configures the run log.
type Store struct {
	Path string `toml:"path"`

	// RecordEvery stores every n-th generation; the final one is always stored.
	RecordEvery int `toml:"record_every"`
}

// Stream configures the websocket progress stream.
type Stream struct {
	Listen string `toml:"listen"`
}

// Default returns the classic configuration: a 15×15 board, 50 individuals,
// an even mutation chance and one worker per CPU.
func Default() Config {
	return Config{
		Search: Search{
			Width:             evolve.DefaultWidth,
			Height:            evolve.DefaultHeight,
			Population:        evolve.DefaultPopulation,
			MutationRate:      evolve.DefaultMutationRate,
			MutateOrientation: true,
			Workers:           runtime.GOMAXPROCS(0),
		},
		Store: Store{RecordEvery: 1},
	}
}

// Load reads the run file at path on top of Default and validates it.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := undecoded(md); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, c.Validate()
}

// Parse reads a run file from r on top of Default and validates it.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := undecoded(md); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func undecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(names, ", "))
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// Validate checks the ranges the engine and the host rely on. Board capacity
// against the catalogue size is checked by the engine, which knows the tiles.
func (c Config) Validate() error {
	s := c.Search
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalid, s.Width, s.Height)
	case s.Population < 2:
		return fmt.Errorf("%w: population %d below 2", ErrInvalid, s.Population)
	case s.MutationRate < 0 || s.MutationRate >= 1:
		return fmt.Errorf("%w: mutation_rate %v outside [0, 1)", ErrInvalid, s.MutationRate)
	case s.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, s.Workers)
	case s.MaxGenerations < 0:
		return fmt.Errorf("%w: max_generations %d", ErrInvalid, s.MaxGenerations)
	case c.Store.RecordEvery < 1:
		return fmt.Errorf("%w: record_every %d", ErrInvalid, c.Store.RecordEvery)
	}
	return nil
}

// EngineOptions translates c into engine options. logger may be nil.
func (c Config) EngineOptions(logger *slog.Logger) []evolve.Option {
	s := c.Search
	return []evolve.Option{
		evolve.WithBoard(s.Width, s.Height),
		evolve.WithPopulation(s.Population),
		evolve.WithMutationRate(s.MutationRate),
		evolve.WithMutateOrientation(s.MutateOrientation),
		evolve.WithWorkers(s.Workers),
		evolve.WithMaxGenerations(s.MaxGenerations),
		evolve.WithSeed(c.Seed),
		evolve.WithLogger(logger),
	}
}
