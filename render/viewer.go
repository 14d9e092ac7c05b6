package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/tile"
)

// Title prefixes the status line.
const Title = "Carcassonne Evolved"

var (
	styleText  = tcell.StyleDefault
	styleTown  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRoad  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleField = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleAbbey = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleFrame = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Viewer draws search progress onto a tcell screen. Each board cell takes
// 3×3 screen cells below a one-line status bar.
type Viewer struct {
	screen tcell.Screen

	mu   sync.Mutex
	last evolve.Progress
	have bool
}

// NewViewer wraps an initialized screen. The caller keeps ownership and
// calls Fini.
func NewViewer(s tcell.Screen) *Viewer {
	return &Viewer{screen: s}
}

// Status returns the status line for the current state.
func (v *Viewer) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.have {
		return Title + ": waiting"
	}
	s := fmt.Sprintf("%s: %d  gen %d  mean %.1f  [%s]",
		Title, v.last.Score, v.last.Generation, v.last.Mean, v.last.Breakdown)
	if v.last.Score == 0 {
		s += "  accepted, q to quit"
	}
	return s
}

// Update records p and redraws.
func (v *Viewer) Update(p evolve.Progress) {
	v.mu.Lock()
	v.last, v.have = p, true
	v.mu.Unlock()
	v.Draw()
}

// Draw repaints the whole screen.
func (v *Viewer) Draw() {
	status := v.Status()
	v.mu.Lock()
	board := v.last.Board
	v.mu.Unlock()

	v.screen.Clear()
	col := 0
	for _, r := range status {
		v.screen.SetContent(col, 0, r, nil, styleText)
		col++
	}
	if board != nil {
		for x := 0; x < board.Width; x++ {
			for y := 0; y < board.Height; y++ {
				v.drawCell(board, tile.Pos{X: x, Y: y})
			}
		}
	}
	v.screen.Show()
}

// drawCell paints one board cell as a 3×3 glyph: terrain on the four edges,
// corners as frame and the centre marking monasteries and road junctions.
func (v *Viewer) drawCell(b *tile.Board, p tile.Pos) {
	pl, ok := b.At(p)
	if !ok {
		return
	}
	ox, oy := p.X*3, 1+p.Y*3
	for _, c := range [][2]int{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		v.screen.SetContent(ox+c[0], oy+c[1], '+', nil, styleFrame)
	}
	offsets := [4][2]int{tile.Left: {0, 1}, tile.Top: {1, 0}, tile.Right: {2, 1}, tile.Bottom: {1, 2}}
	for _, s := range tile.Sides {
		r, st := edgeGlyph(pl.SideOf(s), s)
		v.screen.SetContent(ox+offsets[s][0], oy+offsets[s][1], r, nil, st)
	}
	switch {
	case pl.Template.Monastery:
		v.screen.SetContent(ox+1, oy+1, '▲', nil, styleAbbey)
	case hasRoad(pl):
		v.screen.SetContent(ox+1, oy+1, '┼', nil, styleRoad)
	default:
		v.screen.SetContent(ox+1, oy+1, ' ', nil, styleField)
	}
}

func edgeGlyph(t tile.Terrain, s tile.Side) (rune, tcell.Style) {
	switch t {
	case tile.Town:
		return '█', styleTown
	case tile.Road:
		if s == tile.Left || s == tile.Right {
			return '─', styleRoad
		}
		return '│', styleRoad
	default:
		return '.', styleField
	}
}

// handle reacts to a terminal event and reports whether to keep running.
func (v *Viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.Draw()
	}
	return true
}

// Run redraws on every value from updates until the user quits (q, Esc or
// Ctrl-C), which returns nil, or ctx ends, which returns ctx.Err().
func (v *Viewer) Run(ctx context.Context, updates <-chan evolve.Progress) error {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-updates:
			v.Update(p)
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		}
	}
}
