// Package tile defines the geometry and board model of a Carcassonne-style
// tile layout: terrain types, sides and orientations, tile templates with
// their structures, rotated placements and the sparse rectangular board.
//
// What:
//
//   - Terrain is the closed set {Road, Field, Town}.
//   - Side names both an absolute board side (Left/Top/Right/Bottom) and a
//     rotation amount. Left is the identity rotation; each further step turns
//     a tile 90° clockwise. The four orientations form a cyclic group of order 4.
//   - Template is an immutable catalogue entry. Its per-side terrain is derived
//     from the Structures claiming each side (Field when unclaimed).
//   - Placement binds a Template to a Pos and an orientation. All absolute side
//     lookups go through one rotation table (Side.Rotate).
//   - Board is a fixed Width×Height grid holding at most one Placement per cell.
//     Any side lookup on an empty or off-board cell yields Field, which lets the
//     scorers treat gaps and the outer border with the same matching code.
//
// Invariants:
//
//   - Absolute(s, o) == s.Rotate(o) and Placement.SideOf(Absolute(s, o)) is the
//     template's terrain at s, for all 16 (s, o) pairs.
//   - Rotating a placement by k steps shifts every absolute side by k positions
//     along Left→Top→Right→Bottom.
//   - The board does not deduplicate positions itself; callers place a
//     collision-free sequence (see package resolve).
//
// Errors:
//
//   - ErrBadDimensions: width or height is not positive.
//   - ErrOutOfBounds:   a position lies outside the board.
//   - ErrOccupied:      a position already holds a placement.
//   - ErrUnknownSide / ErrUnknownTerrain: text decoding failed.
package tile
