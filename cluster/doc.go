// Package cluster finds connected groups on a tile board.
//
// What:
//
//   - Spatial groups occupied cells into 4-connected clusters (“islands”):
//     two cells are connected when they are orthogonal neighbours and both hold
//     a placement.
//   - Towns groups Town structures into town clusters: a structure on one tile
//     is connected to a Town structure on the neighbouring tile when it claims
//     an absolute side and the neighbour's structure claims the opposite side.
//     Members are identified by (position, structure index), so two distinct
//     towns on the same tile stay distinct.
//
// Determinism:
//
//	Both analyses seed in scan order (x outer, y inner; structures in template
//	order) and expand breadth-first. Every cell and every town structure is
//	marked visited before it is enqueued, so it belongs to exactly one cluster.
//	Discovery order affects only the order of the returned slices.
//
// Complexity:
//
//   - Spatial: O(W·H·4) time, O(W·H) memory.
//   - Towns:   O(T·4) time and memory for T town structures on the board.
package cluster
