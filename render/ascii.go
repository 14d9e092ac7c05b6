package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/katalvlaran/carcassonne/tile"
)

const (
	block = "██"
	blank = "  "

	// cellWidth is the interior width of one cell in columns.
	cellWidth = 10
)

// edgeRow draws a top or bottom edge: a full wall for towns, a centred track
// for roads.
func edgeRow(t tile.Terrain) string {
	switch t {
	case tile.Town:
		return strings.Repeat(block, cellWidth/2)
	case tile.Road:
		return "    " + block + "    "
	default:
		return strings.Repeat(" ", cellWidth)
	}
}

// sideGlyph draws one half of a middle row. Towns fill the whole side, roads
// only the centre row.
func sideGlyph(t tile.Terrain, centre bool) string {
	switch {
	case t == tile.Town, t == tile.Road && centre:
		return block
	default:
		return blank
	}
}

// middle returns the six columns between the side glyphs.
func middle(pl tile.Placement, ok, centre bool) string {
	switch {
	case !ok:
		return "      "
	case centre && pl.Template.Monastery:
		return "  ▲▲  "
	case centre && hasRoad(pl):
		return "  ██  "
	default:
		return "      "
	}
}

func hasRoad(pl tile.Placement) bool {
	for _, s := range tile.Sides {
		if pl.SideOf(s) == tile.Road {
			return true
		}
	}
	return false
}

// ASCII writes b as text art. Empty cells are blank.
func ASCII(w io.Writer, b *tile.Board) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			bw.WriteString("┼" + strings.Repeat("─", cellWidth))
		}
		bw.WriteString("┼\n")

		for row := 0; row < 5; row++ {
			for x := 0; x < b.Width; x++ {
				p := tile.Pos{X: x, Y: y}
				pl, ok := b.At(p)
				bw.WriteString("│")
				switch row {
				case 0:
					bw.WriteString(edgeRow(b.SideAt(p, tile.Top)))
				case 4:
					bw.WriteString(edgeRow(b.SideAt(p, tile.Bottom)))
				default:
					centre := row == 2
					bw.WriteString(sideGlyph(b.SideAt(p, tile.Left), centre))
					bw.WriteString(middle(pl, ok, centre))
					bw.WriteString(sideGlyph(b.SideAt(p, tile.Right), centre))
				}
			}
			bw.WriteString("│\n")
		}
	}
	for x := 0; x < b.Width; x++ {
		bw.WriteString("┼" + strings.Repeat("─", cellWidth))
	}
	bw.WriteString("┼\n")
	return bw.Flush()
}

// ASCIIString is ASCII into a string.
func ASCIIString(b *tile.Board) string {
	var sb strings.Builder
	_ = ASCII(&sb, b)
	return sb.String()
}
