package fitness_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/tile"
)

var (
	plain = &tile.Template{Name: "plain"}

	// capTop has a town on its top side only.
	capTop = &tile.Template{Name: "cap", Structures: []tile.Structure{
		{Name: "town", Terrain: tile.Town, Sides: []tile.Side{tile.Top}},
	}}

	// cross has a road on every side.
	cross = &tile.Template{Name: "cross", Structures: []tile.Structure{
		{Name: "road", Terrain: tile.Road, Sides: []tile.Side{tile.Left, tile.Top, tile.Right, tile.Bottom}},
	}}

	// deadEnd has a road on its right side only.
	deadEnd = &tile.Template{Name: "dead-end", Structures: []tile.Structure{
		{Name: "road", Terrain: tile.Road, Sides: []tile.Side{tile.Right}},
	}}
)

func pl(tpl *tile.Template, x, y int, o tile.Side) tile.Placement {
	return tile.Placement{Template: tpl, Pos: tile.Pos{X: x, Y: y}, Orientation: o}
}

func evaluate(t *testing.T, w, h int, ps ...tile.Placement) fitness.Breakdown {
	t.Helper()
	bd, err := fitness.Evaluate(w, h, ps)
	require.NoError(t, err)
	return bd
}

func TestEvaluate_SingleBlankTileScoresZero(t *testing.T) {
	bd := evaluate(t, 1, 1, pl(plain, 0, 0, tile.Left))
	assert.Equal(t, fitness.Breakdown{}, bd)
	assert.Zero(t, bd.Total())
}

func TestEvaluate_EmptyBoard(t *testing.T) {
	bd := evaluate(t, 3, 3)
	assert.Zero(t, bd.Total(), "no placements means no clusters to penalize")
}

func TestEvaluate_MismatchAddsExactlyOne(t *testing.T) {
	matched := evaluate(t, 2, 1, pl(plain, 0, 0, tile.Left), pl(plain, 1, 0, tile.Left))
	// deadEnd turned 180° shows its road on the left, facing the field of tile 0.
	mismatched := evaluate(t, 2, 1, pl(plain, 0, 0, tile.Left), pl(deadEnd, 1, 0, tile.Right))
	assert.Equal(t, 1, mismatched.Total()-matched.Total())
	assert.Equal(t, 1, mismatched.EdgeMismatch)
}

func TestEvaluate_TownFieldMismatch(t *testing.T) {
	// Tile 0 shows its town on the right, tile 1 shows field on the left.
	bd := evaluate(t, 2, 1, pl(capTop, 0, 0, tile.Top), pl(plain, 1, 0, tile.Left))
	assert.Equal(t, fitness.Breakdown{EdgeMismatch: 1, UnclosedTown: 1, TownClusters: 1}, bd)
}

func TestEvaluate_MatchedTownsStillCountClusters(t *testing.T) {
	bd := evaluate(t, 2, 1, pl(capTop, 0, 0, tile.Top), pl(capTop, 1, 0, tile.Bottom))
	assert.Equal(t, fitness.Breakdown{TownClusters: 1}, bd)
	assert.Equal(t, 1, bd.Total(), "a finished town is still one town cluster")
}

func TestEvaluate_FlippedTileTouchesItsEdges(t *testing.T) {
	var ps []tile.Placement
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			ps = append(ps, pl(cross, x, y, tile.Left))
		}
	}
	assert.Zero(t, evaluate(t, 3, 3, ps...).EdgeMismatch)

	// Centre tile replaced by a dead end facing right: three of its four edges break.
	ps[4] = pl(deadEnd, 1, 1, tile.Left)
	assert.Equal(t, 3, evaluate(t, 3, 3, ps...).EdgeMismatch)

	// Corner tile replaced by a dead end facing right: only its bottom edge breaks.
	ps[4] = pl(cross, 1, 1, tile.Left)
	ps[0] = pl(deadEnd, 0, 0, tile.Left)
	assert.Equal(t, 1, evaluate(t, 3, 3, ps...).EdgeMismatch)
}

func TestUnclosedTown(t *testing.T) {
	cases := []struct {
		name string
		w, h int
		ps   []tile.Placement
		want int
	}{
		{"lone cap on border", 1, 1, []tile.Placement{pl(capTop, 0, 0, tile.Left)}, 1},
		{"cap facing empty cell", 2, 1, []tile.Placement{pl(capTop, 0, 0, tile.Top)}, 1},
		{"caps facing each other", 2, 1, []tile.Placement{pl(capTop, 0, 0, tile.Top), pl(capTop, 1, 0, tile.Bottom)}, 0},
		{"caps back to back", 2, 1, []tile.Placement{pl(capTop, 0, 0, tile.Bottom), pl(capTop, 1, 0, tile.Top)}, 2},
		{"cap on border next to open town", 2, 1, []tile.Placement{pl(capTop, 0, 0, tile.Left), pl(capTop, 1, 0, tile.Bottom)}, 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b, err := tile.Fill(tc.w, tc.h, tc.ps)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fitness.UnclosedTown(b))
		})
	}
}

// TestUnclosedTown_BorderVersusMatched turns one town edge from the border
// into a matching town edge: the border edge itself accounts for exactly one
// point of the difference.
func TestUnclosedTown_BorderVersusMatched(t *testing.T) {
	onBorder := evaluate(t, 2, 1, pl(capTop, 0, 0, tile.Left))
	facingEmpty := evaluate(t, 2, 1, pl(capTop, 0, 0, tile.Top))
	assert.Equal(t, onBorder.UnclosedTown, facingEmpty.UnclosedTown)

	matched := evaluate(t, 2, 1, pl(capTop, 0, 0, tile.Top), pl(capTop, 1, 0, tile.Bottom))
	partnerOpen := evaluate(t, 2, 1, pl(plain, 0, 0, tile.Left), pl(capTop, 1, 0, tile.Bottom))
	assert.Equal(t, 1, partnerOpen.UnclosedTown-matched.UnclosedTown)
}

func TestClusterPenalty(t *testing.T) {
	one := evaluate(t, 3, 1, pl(plain, 0, 0, tile.Left), pl(plain, 1, 0, tile.Left), pl(plain, 2, 0, tile.Left))
	assert.Zero(t, one.Clusters)

	split := evaluate(t, 3, 1, pl(plain, 0, 0, tile.Left), pl(plain, 2, 0, tile.Left))
	assert.Equal(t, 1, split.Clusters)

	diag := evaluate(t, 3, 3, pl(plain, 0, 0, tile.Left), pl(plain, 1, 1, tile.Left), pl(plain, 2, 2, tile.Left))
	assert.Equal(t, 2, diag.Clusters)
}

func TestEvaluate_RejectsCollisions(t *testing.T) {
	_, err := fitness.Evaluate(2, 2, []tile.Placement{pl(plain, 0, 0, tile.Left), pl(plain, 0, 0, tile.Top)})
	assert.ErrorIs(t, err, tile.ErrOccupied)

	_, err = fitness.Score(2, 2, []tile.Placement{pl(plain, 5, 0, tile.Left)})
	assert.ErrorIs(t, err, tile.ErrOutOfBounds)
}

func TestEvaluateBoard_MatchesEvaluate(t *testing.T) {
	ps := []tile.Placement{pl(capTop, 0, 0, tile.Top), pl(deadEnd, 1, 0, tile.Bottom), pl(cross, 1, 1, tile.Left)}
	b, err := tile.Fill(2, 2, ps)
	require.NoError(t, err)
	score, err := fitness.Score(2, 2, ps)
	require.NoError(t, err)
	assert.Equal(t, score, fitness.EvaluateBoard(b).Total())
}

func ExampleEvaluate() {
	town := &tile.Template{Name: "cap", Structures: []tile.Structure{
		{Name: "town", Terrain: tile.Town, Sides: []tile.Side{tile.Top}},
	}}
	layout := []tile.Placement{
		{Template: town, Index: 0, Pos: tile.Pos{X: 0, Y: 0}, Orientation: tile.Top},
		{Template: town, Index: 1, Pos: tile.Pos{X: 1, Y: 0}, Orientation: tile.Bottom},
	}
	bd, err := fitness.Evaluate(2, 1, layout)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(bd)
	// Output: 1 (c=0 e=0 u=0 t=1)
}
