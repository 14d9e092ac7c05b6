package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/tile"
)

var (
	capTop = &tile.Template{Name: "cap", Structures: []tile.Structure{
		{Name: "town", Terrain: tile.Town, Sides: []tile.Side{tile.Top}},
	}}
	straight = &tile.Template{Name: "straight", Structures: []tile.Structure{
		{Name: "road", Terrain: tile.Road, Sides: []tile.Side{tile.Left, tile.Right}},
	}}
	abbey = &tile.Template{Name: "abbey", Monastery: true}
)

func board(t *testing.T) *tile.Board {
	t.Helper()
	b, err := tile.Fill(2, 1, []tile.Placement{
		{Template: capTop, Pos: tile.Pos{X: 0, Y: 0}, Orientation: tile.Left},
		{Template: straight, Index: 1, Pos: tile.Pos{X: 1, Y: 0}, Orientation: tile.Top},
	})
	require.NoError(t, err)
	return b
}

func TestASCII(t *testing.T) {
	out := ASCIIString(board(t))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7, "separator, five body rows, closing separator")

	want := []string{
		"┼──────────┼──────────┼",
		"│██████████│    ██    │",
		"│          │          │",
		"│          │    ██    │",
		"│          │          │",
		"│          │    ██    │",
		"┼──────────┼──────────┼",
	}
	assert.Equal(t, want, lines)
}

func TestASCII_MonasteryAndRoadCentre(t *testing.T) {
	b, err := tile.Fill(1, 1, []tile.Placement{{Template: abbey}})
	require.NoError(t, err)
	lines := strings.Split(ASCIIString(b), "\n")
	assert.Equal(t, "│    ▲▲    │", lines[3])

	b, err = tile.Fill(1, 1, []tile.Placement{{Template: straight}})
	require.NoError(t, err)
	lines = strings.Split(ASCIIString(b), "\n")
	assert.Equal(t, "│██  ██  ██│", lines[3], "road crosses the centre row")
}

func screen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 10)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.SimulationScreen, y, n int) string {
	var sb strings.Builder
	for x := 0; x < n; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestViewer_StatusAndBoard(t *testing.T) {
	s := screen(t)
	v := NewViewer(s)
	assert.Equal(t, "Carcassonne Evolved: waiting", v.Status())

	v.Update(evolve.Progress{
		Generation: 3,
		Score:      4,
		Breakdown:  fitness.Breakdown{EdgeMismatch: 1, UnclosedTown: 2, TownClusters: 1},
		Mean:       6.5,
		Board:      board(t),
	})
	assert.True(t, strings.HasPrefix(rowText(s, 0, 40), "Carcassonne Evolved: 4  gen 3"))

	// cap at (0,0): town on top edge, frame corners, field elsewhere
	r, _, _, _ := s.GetContent(1, 1)
	assert.Equal(t, '█', r)
	r, _, _, _ = s.GetContent(0, 1)
	assert.Equal(t, '+', r)
	r, _, _, _ = s.GetContent(1, 3)
	assert.Equal(t, '.', r)

	// straight turned 90°: road runs top to bottom
	r, _, _, _ = s.GetContent(4, 1)
	assert.Equal(t, '│', r)
	r, _, _, _ = s.GetContent(4, 2)
	assert.Equal(t, '┼', r)
	r, _, _, _ = s.GetContent(3, 2)
	assert.Equal(t, '.', r)
}

func TestViewer_AcceptedStatus(t *testing.T) {
	v := NewViewer(screen(t))
	v.Update(evolve.Progress{Generation: 9, Score: 0, Board: board(t)})
	assert.Contains(t, v.Status(), "accepted")
}

func TestViewer_Keys(t *testing.T) {
	v := NewViewer(screen(t))
	assert.False(t, v.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, v.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.True(t, v.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
}

func TestViewer_RunStopsOnContext(t *testing.T) {
	s := screen(t)
	v := NewViewer(s)
	updates := make(chan evolve.Progress, 1)
	updates <- evolve.Progress{Generation: 1, Score: 2, Board: board(t)}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := v.Run(ctx, updates)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, v.Status(), "gen 1")
}
