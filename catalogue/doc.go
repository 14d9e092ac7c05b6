// Package catalogue reads tile catalogues written in a small text format and
// ships the 72-tile base game as a built-in catalogue.
//
// Format:
//
//	# comment
//	tile D count 4 image "tiles/D.png" {
//	  town "city" top value 1
//	  road "road" left right value 1
//	}
//
// A tile block names a kind. count (default 1) sets how many copies the
// catalogue holds, image is an opaque artwork reference. Each structure line
// gives a terrain (town, road or field), an optional label, the tile-local
// sides it claims and an optional score value. monastery marks a cloister.
// Sides no structure claims are field.
//
// Templates expands every kind into count templates in declaration order,
// which is the gene order the evolve package uses.
//
// Errors:
//
//   - ErrSyntax:        the source does not match the grammar.
//   - ErrEmpty:         the source declares no tiles.
//   - ErrDuplicateKind: two tile blocks share a name.
//   - ErrBadCount:      a count is below one.
//   - tile.ErrUnknownTerrain / tile.ErrUnknownSide: a word is not recognized.
package catalogue
