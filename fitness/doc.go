// Package fitness scores a resolved tile layout. Lower is better and 0 is the
// only accepted terminal score.
//
// What:
//
//	A score is the sum of four non-negative penalty terms:
//
//	  Clusters      spatial clusters − 1 (0 for a single blob or an empty board)
//	  EdgeMismatch  adjacent occupied pairs whose facing terrains differ
//	  UnclosedTown  Town sides on the outer border, plus every shared edge
//	                where exactly one of the two facing sides is Town
//	                (empty cells count as Field)
//	  TownClusters  number of distinct town clusters
//
//	Each adjacent pair is visited once: the right side of (x,y) against the
//	left side of (x+1,y), and the bottom side of (x,y) against the top side
//	of (x,y+1).
//
// Note:
//
//	TownClusters counts finished towns too, so a fully matched board with
//	several separate towns still scores above zero. Convergence therefore
//	needs layouts that merge towns as far as the tile set allows.
//
// Concurrency:
//
//	Evaluate builds a private board per call and shares no state, so distinct
//	layouts may be scored from different goroutines.
//
// Complexity:
//
//	O(W·H + T) time and O(W·H) memory for T town structures.
package fitness
