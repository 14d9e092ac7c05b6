package tile_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/carcassonne/tile"
)

// townLeft has a town on its left side, a road running top to bottom and an
// unclaimed right side.
var townLeft = &tile.Template{
	Name: "town-left",
	Structures: []tile.Structure{
		{Name: "town", Terrain: tile.Town, Sides: []tile.Side{tile.Left}, Value: 1},
		{Name: "road", Terrain: tile.Road, Sides: []tile.Side{tile.Top, tile.Bottom}},
	},
}

func TestSide_RotationGroup(t *testing.T) {
	for _, s := range tile.Sides {
		assert.Equal(t, s, s.Rotate(tile.Left), "Left is the identity")
		assert.Equal(t, s, s.Rotate(tile.Top).Rotate(tile.Top).Rotate(tile.Top).Rotate(tile.Top), "order 4")
		assert.Equal(t, s, s.Opposite().Opposite())
		for _, o := range tile.Sides {
			assert.Equal(t, s, s.Rotate(o).Rotate(o.Inverse()), "inverse undoes %v by %v", s, o)
			for _, o2 := range tile.Sides {
				assert.Equal(t, s.Rotate(o).Rotate(o2), s.Rotate(o.Rotate(o2)), "composition")
			}
		}
	}
	assert.Equal(t, tile.Right, tile.Left.Opposite())
	assert.Equal(t, tile.Bottom, tile.Top.Opposite())
}

func TestAbsolute_AllPairs(t *testing.T) {
	// Clockwise turn by o moves a side o steps along Left→Top→Right→Bottom.
	for i, s := range tile.Sides {
		for j, o := range tile.Sides {
			want := tile.Sides[(i+j)%4]
			assert.Equal(t, want, tile.Absolute(s, o), "Absolute(%v,%v)", s, o)
		}
	}
}

func TestTemplate_SideOfDefaultsToField(t *testing.T) {
	assert.Equal(t, tile.Town, townLeft.SideOf(tile.Left))
	assert.Equal(t, tile.Road, townLeft.SideOf(tile.Top))
	assert.Equal(t, tile.Field, townLeft.SideOf(tile.Right))
	assert.Equal(t, tile.Road, townLeft.SideOf(tile.Bottom))
	assert.Equal(t, [4]tile.Terrain{tile.Town, tile.Road, tile.Field, tile.Road}, townLeft.Edges())

	empty := &tile.Template{Name: "empty"}
	for _, s := range tile.Sides {
		assert.Equal(t, tile.Field, empty.SideOf(s))
		assert.Equal(t, -1, empty.StructureAt(s))
	}
}

func TestPlacement_RotationShiftsSides(t *testing.T) {
	p := tile.Placement{Template: townLeft}
	for k, o := range tile.Sides {
		q := p.Rotated(o)
		for i, s := range tile.Sides {
			shifted := tile.Sides[(i+k)%4]
			assert.Equal(t, p.SideOf(s), q.SideOf(shifted), "orientation %v side %v", o, s)
		}
	}

	q := p.Rotated(tile.Top)
	assert.Equal(t, tile.Town, q.Top())
	assert.Equal(t, tile.Road, q.Right())
	assert.Equal(t, tile.Field, q.Bottom())
	assert.Equal(t, tile.Road, q.Left())
	assert.Equal(t, 0, q.StructureAt(tile.Top))
}

func TestPlacement_SideOfInvariantUnderCycle(t *testing.T) {
	for _, o := range tile.Sides {
		for _, s := range tile.Sides {
			p := tile.Placement{Template: townLeft, Orientation: o}
			want := p.SideOf(s)
			for step := 0; step < 4; step++ {
				p = p.Rotated(tile.Top)
				s = s.Rotate(tile.Top)
				assert.Equal(t, want, p.SideOf(s))
			}
		}
	}
}

func TestBoard_PlaceAndLookup(t *testing.T) {
	_, err := tile.NewBoard(0, 3)
	require.ErrorIs(t, err, tile.ErrBadDimensions)

	b, err := tile.NewBoard(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Capacity())

	require.NoError(t, b.Place(tile.Placement{Template: townLeft, Pos: tile.Pos{X: 1, Y: 1}}))
	assert.ErrorIs(t, b.Place(tile.Placement{Template: townLeft, Pos: tile.Pos{X: 1, Y: 1}}), tile.ErrOccupied)
	assert.ErrorIs(t, b.Place(tile.Placement{Template: townLeft, Pos: tile.Pos{X: 3, Y: 0}}), tile.ErrOutOfBounds)
	assert.Equal(t, 1, b.Len())

	assert.Equal(t, tile.Town, b.SideAt(tile.Pos{X: 1, Y: 1}, tile.Left))
	assert.Equal(t, tile.Field, b.SideAt(tile.Pos{X: 0, Y: 0}, tile.Left), "empty cell")
	assert.Equal(t, tile.Field, b.SideAt(tile.Pos{X: -1, Y: 5}, tile.Top), "off board")

	n, ok := b.Neighbor(tile.Pos{X: 0, Y: 1}, tile.Right)
	require.True(t, ok)
	assert.Equal(t, tile.Pos{X: 1, Y: 1}, n.Pos)

	c := b.Clone()
	b.Remove(tile.Pos{X: 1, Y: 1})
	assert.Equal(t, 0, b.Len())
	assert.True(t, c.Occupied(tile.Pos{X: 1, Y: 1}), "clone is independent")
}

func TestBoard_PlacementsScanOrder(t *testing.T) {
	b, err := tile.Fill(2, 2, []tile.Placement{
		{Template: townLeft, Index: 0, Pos: tile.Pos{X: 1, Y: 0}},
		{Template: townLeft, Index: 1, Pos: tile.Pos{X: 0, Y: 1}},
		{Template: townLeft, Index: 2, Pos: tile.Pos{X: 0, Y: 0}},
	})
	require.NoError(t, err)
	var order []int
	for _, p := range b.Placements() {
		order = append(order, p.Index)
	}
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestSnapshot_Restore(t *testing.T) {
	catalogue := []*tile.Template{townLeft}
	b, err := tile.Fill(2, 1, []tile.Placement{
		{Template: townLeft, Index: 0, Pos: tile.Pos{X: 1, Y: 0}, Orientation: tile.Bottom},
	})
	require.NoError(t, err)

	data, err := json.Marshal(b.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"orientation":"bottom"`)

	var snap tile.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	nb, err := tile.Restore(snap, catalogue)
	require.NoError(t, err)
	p, ok := nb.At(tile.Pos{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, tile.Bottom, p.Orientation)
	assert.Same(t, townLeft, p.Template)

	snap.Cells[0].Index = 4
	_, err = tile.Restore(snap, catalogue)
	assert.ErrorIs(t, err, tile.ErrUnknownTemplate)
}
