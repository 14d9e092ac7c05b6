package cluster

import "github.com/katalvlaran/carcassonne/tile"

// Cluster is a maximal 4-connected set of placements, in BFS visit order.
type Cluster []tile.Placement

// Contains reports whether the cluster holds a placement at p.
func (c Cluster) Contains(p tile.Pos) bool {
	for _, pl := range c {
		if pl.Pos == p {
			return true
		}
	}
	return false
}

// Spatial finds all clusters of occupied cells on b, seeded in scan order
// (x outer, y inner). Each cell is marked before it is enqueued, so it joins
// exactly one cluster. An empty board has no clusters.
//
// Complexity: O(W·H) time and memory.
func Spatial(b *tile.Board) []Cluster {
	seen := make([]bool, b.Capacity())
	mark := func(p tile.Pos) { seen[p.Y*b.Width+p.X] = true }
	marked := func(p tile.Pos) bool { return seen[p.Y*b.Width+p.X] }

	var comps []Cluster
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			start := tile.Pos{X: x, Y: y}
			first, ok := b.At(start)
			if !ok || marked(start) {
				continue
			}
			// BFS to collect the cluster
			mark(start)
			queue := []tile.Placement{first}
			for qi := 0; qi < len(queue); qi++ {
				u := queue[qi].Pos
				for _, s := range tile.Sides {
					v := u.Step(s)
					nb, ok := b.At(v)
					if !ok || marked(v) {
						continue
					}
					mark(v)
					queue = append(queue, nb)
				}
			}
			comps = append(comps, Cluster(queue))
		}
	}
	return comps
}
