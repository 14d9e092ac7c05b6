// Package resolve places a candidate layout onto a collision-free board.
//
// What:
//
//   - Overlaps walks a placement sequence in order. A placement whose target
//     cell is free keeps it; a later placement that collides is moved to the
//     closest free cell, keeping its template, catalogue index and orientation.
//   - "Closest" is found by scanning square halo rings around the target at
//     distance d = 1, 2, 3, … (Chebyshev distance). Halo fixes the scan order
//     inside one ring: a horizontal sweep over the top and bottom rows, then a
//     vertical sweep over the left and right columns. The first free cell wins.
//
// Why:
//
//   - Earlier genes have placement priority, so reordering genes through
//     crossover changes which tiles get displaced. The resolver is therefore
//     deliberately not commutative.
//
// Contract:
//
//   - Width×Height must be at least len(placements); otherwise ErrBoardFull.
//     The evolve engine checks this once at construction, so the search loop
//     never sees the error.
//
// Complexity:
//
//   - Overlaps: O(n + k·max(W,H)²) for k collisions in the worst case, O(W·H) memory.
//   - Halo:     O(d) time and memory.
package resolve
