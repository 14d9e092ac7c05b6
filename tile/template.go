package tile

// Structure is a named terrain feature occupying a set of tile-local sides.
// Value is the feature's game score; layout fitness does not use it.
type Structure struct {
	Name    string
	Terrain Terrain
	Sides   []Side
	Value   int
}

// Claims reports whether the structure occupies tile-local side s.
func (st Structure) Claims(s Side) bool {
	for _, side := range st.Sides {
		if side == s {
			return true
		}
	}
	return false
}

// Template is an immutable tile definition from a catalogue.
type Template struct {
	Name       string
	Structures []Structure
	Monastery  bool
	// Image is an opaque artwork reference for presentation layers.
	Image string
}

// StructureAt returns the index of the first structure claiming tile-local
// side s, or -1 if none does.
func (t *Template) StructureAt(s Side) int {
	for i, st := range t.Structures {
		if st.Claims(s) {
			return i
		}
	}
	return -1
}

// SideOf returns the terrain on un-rotated side s: the terrain of the first
// structure claiming it, or Field when unclaimed.
func (t *Template) SideOf(s Side) Terrain {
	if i := t.StructureAt(s); i >= 0 {
		return t.Structures[i].Terrain
	}
	return Field
}

// Edges returns the un-rotated terrain of all four sides in Left, Top, Right,
// Bottom order.
func (t *Template) Edges() [4]Terrain {
	var e [4]Terrain
	for _, s := range Sides {
		e[s] = t.SideOf(s)
	}
	return e
}
