package fitness

import (
	"fmt"

	"github.com/katalvlaran/carcassonne/cluster"
	"github.com/katalvlaran/carcassonne/tile"
)

// Breakdown holds the individual penalty terms of one evaluation.
type Breakdown struct {
	Clusters     int `json:"clusters"`
	EdgeMismatch int `json:"edge_mismatch"`
	UnclosedTown int `json:"unclosed_town"`
	TownClusters int `json:"town_clusters"`
}

// Total returns the score: the sum of all terms.
func (b Breakdown) Total() int {
	return b.Clusters + b.EdgeMismatch + b.UnclosedTown + b.TownClusters
}

// String renders the breakdown as "total (c=… e=… u=… t=…)".
func (b Breakdown) String() string {
	return fmt.Sprintf("%d (c=%d e=%d u=%d t=%d)",
		b.Total(), b.Clusters, b.EdgeMismatch, b.UnclosedTown, b.TownClusters)
}

// Evaluate places a resolved sequence on a fresh width×height board and
// scores it. It fails only when the sequence does not fit the board
// collision-free, which resolver output always does.
//
// Complexity: O(W·H + N + T) time, O(W·H) memory.
func Evaluate(width, height int, resolved []tile.Placement) (Breakdown, error) {
	b, err := tile.Fill(width, height, resolved)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fitness: %w", err)
	}
	return EvaluateBoard(b), nil
}

// Score is Evaluate followed by Total.
func Score(width, height int, resolved []tile.Placement) (int, error) {
	bd, err := Evaluate(width, height, resolved)
	if err != nil {
		return 0, err
	}
	return bd.Total(), nil
}

// EvaluateBoard scores a populated board. It never fails.
//
// Complexity: O(W·H + T) time for T town structures, O(W·H) memory.
func EvaluateBoard(b *tile.Board) Breakdown {
	return Breakdown{
		Clusters:     ClusterPenalty(b),
		EdgeMismatch: EdgeMismatch(b),
		UnclosedTown: UnclosedTown(b),
		TownClusters: len(cluster.Towns(b)),
	}
}

// ClusterPenalty returns the number of spatial clusters minus one.
//
// Complexity: O(W·H).
func ClusterPenalty(b *tile.Board) int {
	if n := len(cluster.Spatial(b)); n > 1 {
		return n - 1
	}
	return 0
}

// EdgeMismatch counts adjacent occupied pairs whose facing sides differ.
func EdgeMismatch(b *tile.Board) int {
	n := 0
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			p := tile.Pos{X: x, Y: y}
			cur, ok := b.At(p)
			if !ok {
				continue
			}
			if r, ok := b.Neighbor(p, tile.Right); ok && cur.Right() != r.Left() {
				n++
			}
			if d, ok := b.Neighbor(p, tile.Bottom); ok && cur.Bottom() != d.Top() {
				n++
			}
		}
	}
	return n
}

// UnclosedTown counts Town sides that face the border or a non-Town side.
func UnclosedTown(b *tile.Board) int {
	town := func(p tile.Pos, s tile.Side) bool { return b.SideAt(p, s) == tile.Town }
	n := 0
	for x := 0; x < b.Width; x++ {
		if town(tile.Pos{X: x, Y: 0}, tile.Top) {
			n++
		}
		if town(tile.Pos{X: x, Y: b.Height - 1}, tile.Bottom) {
			n++
		}
	}
	for y := 0; y < b.Height; y++ {
		if town(tile.Pos{X: 0, Y: y}, tile.Left) {
			n++
		}
		if town(tile.Pos{X: b.Width - 1, Y: y}, tile.Right) {
			n++
		}
	}
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			p := tile.Pos{X: x, Y: y}
			if x+1 < b.Width && town(p, tile.Right) != town(p.Step(tile.Right), tile.Left) {
				n++
			}
			if y+1 < b.Height && town(p, tile.Bottom) != town(p.Step(tile.Bottom), tile.Top) {
				n++
			}
		}
	}
	return n
}
