package tile

// Placement is a template placed at a grid position with an orientation.
// Index is the template's position in the catalogue and identifies the gene
// the placement came from; it survives relocation by the overlap resolver.
type Placement struct {
	Template    *Template
	Index       int
	Pos         Pos
	Orientation Side
}

// local converts an absolute board side into the template-local side that
// faces it under p's orientation.
func (p Placement) local(abs Side) Side {
	return abs.Rotate(p.Orientation.Inverse())
}

// SideOf returns the terrain facing absolute side abs.
func (p Placement) SideOf(abs Side) Terrain {
	if p.Template == nil {
		return Field
	}
	return p.Template.SideOf(p.local(abs))
}

// StructureAt returns the index of the first structure facing absolute side
// abs, or -1 if none does.
func (p Placement) StructureAt(abs Side) int {
	if p.Template == nil {
		return -1
	}
	return p.Template.StructureAt(p.local(abs))
}

// Left returns the terrain on the absolute left side.
func (p Placement) Left() Terrain { return p.SideOf(Left) }

// Top returns the terrain on the absolute top side.
func (p Placement) Top() Terrain { return p.SideOf(Top) }

// Right returns the terrain on the absolute right side.
func (p Placement) Right() Terrain { return p.SideOf(Right) }

// Bottom returns the terrain on the absolute bottom side.
func (p Placement) Bottom() Terrain { return p.SideOf(Bottom) }

// At returns a copy of p moved to pos.
func (p Placement) At(pos Pos) Placement {
	p.Pos = pos
	return p
}

// Rotated returns a copy of p turned clockwise by o.
func (p Placement) Rotated(o Side) Placement {
	p.Orientation = p.Orientation.Rotate(o)
	return p
}
