package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/store"
	"github.com/katalvlaran/carcassonne/tile"
)

var capTop = &tile.Template{Name: "cap", Structures: []tile.Structure{
	{Name: "town", Terrain: tile.Town, Sides: []tile.Side{tile.Top}},
}}

func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRun(t *testing.T, s *store.Store) *store.Run {
	t.Helper()
	r := &store.Run{Seed: 7, Width: 2, Height: 1, Population: 4, MutationRate: 0.5, Catalogue: "test", Tiles: 2}
	require.NoError(t, s.CreateRun(context.Background(), r))
	return r
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	r := newRun(t, s)
	assert.NotEqual(t, ulid.ULID{}, r.ID, "id assigned")
	assert.False(t, r.Started.IsZero())

	got, err := s.Run(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, int64(7), got.Seed)
	assert.Equal(t, -1, got.BestScore, "unfinished")
	assert.True(t, got.Finished.IsZero())

	for g := 1; g <= 3; g++ {
		require.NoError(t, s.RecordProgress(ctx, r.ID, evolve.Progress{
			Generation: g,
			Score:      4 - g,
			Breakdown:  fitness.Breakdown{TownClusters: 1, UnclosedTown: 3 - g},
			Mean:       5.5,
			Worst:      9,
		}))
	}
	gens, err := s.Progress(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, gens, 3)
	assert.Equal(t, 1, gens[0].Generation)
	assert.Equal(t, 1, gens[2].Score)
	assert.Equal(t, fitness.Breakdown{TownClusters: 1}, gens[2].Breakdown)

	board, err := tile.Fill(2, 1, []tile.Placement{
		{Template: capTop, Index: 0, Pos: tile.Pos{X: 0, Y: 0}, Orientation: tile.Top},
		{Template: capTop, Index: 1, Pos: tile.Pos{X: 1, Y: 0}, Orientation: tile.Bottom},
	})
	require.NoError(t, err)
	res := evolve.Result{Generations: 3, Converged: false, Best: evolve.Individual{Score: 1}}
	require.NoError(t, s.FinishRun(ctx, r.ID, res, board))

	got, err = s.Run(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Generations)
	assert.Equal(t, 1, got.BestScore)
	assert.False(t, got.Converged)
	assert.False(t, got.Finished.IsZero())

	snap, err := s.Board(ctx, r.ID)
	require.NoError(t, err)
	restored, err := tile.Restore(snap, []*tile.Template{capTop, capTop})
	require.NoError(t, err)
	assert.Equal(t, board.Placements(), restored.Placements())
}

func TestRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	a := newRun(t, s)
	b := &store.Run{Started: a.Started.Add(1e9), Catalogue: "later"}
	require.NoError(t, s.CreateRun(ctx, b))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, b.ID, runs[0].ID)
	assert.Equal(t, a.ID, runs[1].ID)

	runs, err = s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	missing := ulid.Make()

	_, err := s.Run(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Board(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRun(ctx, missing), store.ErrNotFound)

	b, err := tile.NewBoard(1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, s.FinishRun(ctx, missing, evolve.Result{}, b), store.ErrNotFound)
}

func TestDeleteRun_Cascades(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	r := newRun(t, s)
	require.NoError(t, s.RecordProgress(ctx, r.ID, evolve.Progress{Generation: 1}))
	require.NoError(t, s.DeleteRun(ctx, r.ID))

	gens, err := s.Progress(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, gens)
}

func TestRecordProgress_UnknownRun(t *testing.T) {
	s := open(t)
	err := s.RecordProgress(context.Background(), ulid.Make(), evolve.Progress{Generation: 1})
	assert.Error(t, err, "foreign key rejects progress for a missing run")
}

func TestRecordProgress_ReplacesGeneration(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	r := newRun(t, s)
	require.NoError(t, s.RecordProgress(ctx, r.ID, evolve.Progress{Generation: 4, Score: 9}))
	require.NoError(t, s.RecordProgress(ctx, r.ID, evolve.Progress{Generation: 4, Score: 6}))

	gens, err := s.Progress(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, 6, gens[0].Score)
}
