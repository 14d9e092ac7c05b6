package tile

import "fmt"

// Board is a fixed Width×Height sparse grid of placements.
// It is not safe for concurrent mutation; scorers build a private Board per
// evaluated layout.
type Board struct {
	Width, Height int
	cells         []*Placement
	count         int
}

// NewBoard returns an empty board.
// Returns ErrBadDimensions if width or height is not positive.
func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	return &Board{
		Width:  width,
		Height: height,
		cells:  make([]*Placement, width*height),
	}, nil
}

// Fill builds a board holding every placement of a collision-free sequence.
// Returns ErrOutOfBounds or ErrOccupied if the sequence does not fit.
func Fill(width, height int, placements []Placement) (*Board, error) {
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	for _, p := range placements {
		if err = b.Place(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// index maps (x,y) to a row-major index: y*Width + x.
func (b *Board) index(p Pos) int {
	return p.Y*b.Width + p.X
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Capacity returns the number of cells.
func (b *Board) Capacity() int {
	return b.Width * b.Height
}

// Len returns the number of occupied cells.
func (b *Board) Len() int {
	return b.count
}

// At returns the placement at p, if any. Off-board positions are empty.
func (b *Board) At(p Pos) (Placement, bool) {
	if !b.InBounds(p) {
		return Placement{}, false
	}
	c := b.cells[b.index(p)]
	if c == nil {
		return Placement{}, false
	}
	return *c, true
}

// Occupied reports whether p holds a placement.
func (b *Board) Occupied(p Pos) bool {
	return b.InBounds(p) && b.cells[b.index(p)] != nil
}

// Place stores pl at pl.Pos.
func (b *Board) Place(pl Placement) error {
	if !b.InBounds(pl.Pos) {
		return fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, pl.Pos, b.Width, b.Height)
	}
	i := b.index(pl.Pos)
	if b.cells[i] != nil {
		return fmt.Errorf("%w: %v", ErrOccupied, pl.Pos)
	}
	c := pl
	b.cells[i] = &c
	b.count++
	return nil
}

// Remove empties p. Removing an empty or off-board cell is a no-op.
func (b *Board) Remove(p Pos) {
	if !b.InBounds(p) {
		return
	}
	i := b.index(p)
	if b.cells[i] != nil {
		b.cells[i] = nil
		b.count--
	}
}

// Neighbor returns the placement adjacent to p across absolute side s.
func (b *Board) Neighbor(p Pos, s Side) (Placement, bool) {
	return b.At(p.Step(s))
}

// SideAt returns the terrain on absolute side s of the cell at p.
// Empty and off-board cells report Field.
func (b *Board) SideAt(p Pos, s Side) Terrain {
	pl, ok := b.At(p)
	if !ok {
		return Field
	}
	return pl.SideOf(s)
}

// Placements returns all placements in scan order: x outer, y inner.
func (b *Board) Placements() []Placement {
	out := make([]Placement, 0, b.count)
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if c := b.cells[b.index(Pos{x, y})]; c != nil {
				out = append(out, *c)
			}
		}
	}
	return out
}

// Clone returns an independent copy of b. Templates are shared.
func (b *Board) Clone() *Board {
	nb := &Board{
		Width:  b.Width,
		Height: b.Height,
		cells:  make([]*Placement, len(b.cells)),
		count:  b.count,
	}
	for i, c := range b.cells {
		if c != nil {
			cp := *c
			nb.cells[i] = &cp
		}
	}
	return nb
}
