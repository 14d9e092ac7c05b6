package cluster

import "github.com/katalvlaran/carcassonne/tile"

// TownRef identifies one Town structure on the board: the tile position and
// the structure's index within that tile's template.
type TownRef struct {
	Pos       tile.Pos
	Structure int
}

// TownCluster is a maximal set of Town structures joined across tile
// boundaries, in BFS visit order.
type TownCluster []TownRef

// Contains reports whether ref is a member.
func (c TownCluster) Contains(ref TownRef) bool {
	for _, r := range c {
		if r == ref {
			return true
		}
	}
	return false
}

// townWalker holds the mutable state of a town-following pass.
type townWalker struct {
	board   *tile.Board
	visited map[TownRef]bool
	queue   []TownRef
}

// Towns finds all town clusters on b. Every Town structure belongs to exactly
// one cluster; a tile with two separate towns may sit in two clusters.
//
// Complexity: O(W·H + T) time, O(T) memory for T town structures.
func Towns(b *tile.Board) []TownCluster {
	w := &townWalker{board: b, visited: make(map[TownRef]bool)}
	var out []TownCluster
	for _, pl := range b.Placements() {
		if pl.Template == nil {
			continue
		}
		for i, st := range pl.Template.Structures {
			ref := TownRef{Pos: pl.Pos, Structure: i}
			if st.Terrain != tile.Town || w.visited[ref] {
				continue
			}
			out = append(out, w.collect(ref))
		}
	}
	return out
}

// collect runs BFS from seed and returns every reachable town structure.
func (w *townWalker) collect(seed TownRef) TownCluster {
	w.queue = w.queue[:0]
	w.enqueue(seed)
	for qi := 0; qi < len(w.queue); qi++ {
		for _, next := range w.neighbours(w.queue[qi]) {
			if !w.visited[next] {
				w.enqueue(next)
			}
		}
	}
	return append(TownCluster(nil), w.queue...)
}

// enqueue marks ref visited and appends it to the frontier.
func (w *townWalker) enqueue(ref TownRef) {
	w.visited[ref] = true
	w.queue = append(w.queue, ref)
}

// neighbours lists the Town structures that continue ref across each side it
// claims. For each structure side the absolute side is computed from the
// tile's orientation; the adjacent tile's first structure on the opposite
// side continues the town when it is a Town.
func (w *townWalker) neighbours(ref TownRef) []TownRef {
	pl, ok := w.board.At(ref.Pos)
	if !ok {
		return nil
	}
	st := pl.Template.Structures[ref.Structure]
	var out []TownRef
	for _, local := range st.Sides {
		abs := tile.Absolute(local, pl.Orientation)
		nb, ok := w.board.Neighbor(ref.Pos, abs)
		if !ok {
			continue
		}
		facing := abs.Opposite()
		if nb.SideOf(facing) != tile.Town {
			continue
		}
		out = append(out, TownRef{Pos: nb.Pos, Structure: nb.StructureAt(facing)})
	}
	return out
}
