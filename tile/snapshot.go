package tile

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate indicates a snapshot cell that does not match the
// catalogue it is restored against.
var ErrUnknownTemplate = errors.New("tile: snapshot references unknown template")

// Snapshot is the serializable view of a board: dimensions plus every
// occupied cell in scan order.
type Snapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Cells  []CellSnapshot `json:"cells"`
}

// CellSnapshot is one placement: catalogue index, template name, position
// and orientation. Edges carries the absolute terrain (Left, Top, Right,
// Bottom) for consumers that have no catalogue.
type CellSnapshot struct {
	Index       int        `json:"index"`
	Name        string     `json:"name"`
	X           int        `json:"x"`
	Y           int        `json:"y"`
	Orientation Side       `json:"orientation"`
	Edges       [4]Terrain `json:"edges"`
}

// Snapshot captures the current board contents.
func (b *Board) Snapshot() Snapshot {
	ps := b.Placements()
	s := Snapshot{Width: b.Width, Height: b.Height, Cells: make([]CellSnapshot, len(ps))}
	for i, p := range ps {
		c := CellSnapshot{Index: p.Index, X: p.Pos.X, Y: p.Pos.Y, Orientation: p.Orientation}
		if p.Template != nil {
			c.Name = p.Template.Name
		}
		for _, side := range Sides {
			c.Edges[side] = p.SideOf(side)
		}
		s.Cells[i] = c
	}
	return s
}

// Restore rebuilds a board from a snapshot, resolving templates by catalogue
// index. A non-empty cell name must match the template's name.
func Restore(s Snapshot, templates []*Template) (*Board, error) {
	b, err := NewBoard(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	for _, c := range s.Cells {
		if c.Index < 0 || c.Index >= len(templates) {
			return nil, fmt.Errorf("%w: index %d", ErrUnknownTemplate, c.Index)
		}
		t := templates[c.Index]
		if c.Name != "" && c.Name != t.Name {
			return nil, fmt.Errorf("%w: index %d is %q, not %q", ErrUnknownTemplate, c.Index, t.Name, c.Name)
		}
		pl := Placement{Template: t, Index: c.Index, Pos: Pos{c.X, c.Y}, Orientation: c.Orientation}
		if err = b.Place(pl); err != nil {
			return nil, err
		}
	}
	return b, nil
}
