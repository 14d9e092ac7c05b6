package resolve

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/carcassonne/tile"
)

// Sentinel errors for overlap resolution.
var (
	// ErrBoardFull indicates there is no free cell left for a colliding placement.
	ErrBoardFull = errors.New("resolve: board has no free cell")

	// ErrOutOfBounds indicates a placement targets a cell outside the board.
	ErrOutOfBounds = errors.New("resolve: placement outside board")
)

// Halo returns the on-board cells of the square ring at distance d around
// center, in scan order. Cells outside a width×height board are clipped.
//
// Order:
//
//  1. horizontal sweep: for x = cx−d … cx+d, the top-row cell (x, cy−d)
//     then the bottom-row cell (x, cy+d);
//  2. vertical sweep: for y = cy−d+1 … cy+d−1, the left-column cell
//     (cx−d, y) then the right-column cell (cx+d, y).
//
// Every ring cell appears exactly once. d <= 0 yields only center.
func Halo(center tile.Pos, d, width, height int) []tile.Pos {
	in := func(p tile.Pos) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
	}
	if d <= 0 {
		if in(center) {
			return []tile.Pos{center}
		}
		return nil
	}

	out := make([]tile.Pos, 0, 8*d)
	push := func(p tile.Pos) {
		if in(p) {
			out = append(out, p)
		}
	}
	for x := center.X - d; x <= center.X+d; x++ {
		push(tile.Pos{X: x, Y: center.Y - d})
		push(tile.Pos{X: x, Y: center.Y + d})
	}
	for y := center.Y - d + 1; y <= center.Y+d-1; y++ {
		push(tile.Pos{X: center.X - d, Y: y})
		push(tile.Pos{X: center.X + d, Y: y})
	}
	return out
}

// ClosestFree returns the first free cell of the nearest halo ring around
// target that has one. occupied reports whether a cell is taken.
//
// Complexity: O(W·H) calls to occupied in the worst case.
func ClosestFree(target tile.Pos, width, height int, occupied func(tile.Pos) bool) (tile.Pos, bool) {
	maxD := width
	if height > maxD {
		maxD = height
	}
	for d := 1; d <= maxD; d++ {
		for _, p := range Halo(target, d, width, height) {
			if !occupied(p) {
				return p, true
			}
		}
	}
	return tile.Pos{}, false
}

// Overlaps returns a collision-free copy of placements on a width×height
// board. Entries keep their order and identity; only colliding entries get a
// new position. The input slice is not modified.
//
// Returns ErrOutOfBounds if a target lies off the board and ErrBoardFull if
// the board cannot hold all placements.
//
// Complexity: O(N) without collisions; each collision costs one ClosestFree,
// so O(N·W·H) in the worst case for N placements.
func Overlaps(placements []tile.Placement, width, height int) ([]tile.Placement, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", tile.ErrBadDimensions, width, height)
	}
	if len(placements) > width*height {
		return nil, fmt.Errorf("%w: %d placements on %d cells", ErrBoardFull, len(placements), width*height)
	}

	taken := make([]bool, width*height)
	occupied := func(p tile.Pos) bool { return taken[p.Y*width+p.X] }

	out := make([]tile.Placement, len(placements))
	for i, p := range placements {
		if p.Pos.X < 0 || p.Pos.Y < 0 || p.Pos.X >= width || p.Pos.Y >= height {
			return nil, fmt.Errorf("%w: gene %d at %v", ErrOutOfBounds, i, p.Pos)
		}
		if occupied(p.Pos) {
			free, ok := ClosestFree(p.Pos, width, height, occupied)
			if !ok {
				return nil, fmt.Errorf("%w: gene %d at %v", ErrBoardFull, i, p.Pos)
			}
			p = p.At(free)
		}
		taken[p.Pos.Y*width+p.Pos.X] = true
		out[i] = p
	}
	return out, nil
}
