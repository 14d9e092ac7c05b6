package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/carcassonne/catalogue"
	"github.com/katalvlaran/carcassonne/config"
	"github.com/katalvlaran/carcassonne/store"
	"github.com/katalvlaran/carcassonne/tile"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTiles(t *testing.T) {
	out, err := execute(t, "tiles")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "base: 72 tiles in 24 kinds")

	src, err := execute(t, "tiles", "--source")
	require.NoError(t, err)
	c, err := catalogue.ParseString("out", src)
	require.NoError(t, err)
	assert.Equal(t, 72, c.Len())
}

func TestConfig_PrintsEffectiveRunFile(t *testing.T) {
	run := writeFile(t, "run.toml", "seed = 11\n[search]\nwidth = 7\n")
	out, err := execute(t, "config", "--config", run, "--store", "runs.db")
	require.NoError(t, err)

	c, err := config.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, int64(11), c.Seed)
	assert.Equal(t, 7, c.Search.Width)
	assert.Equal(t, "runs.db", c.Store.Path)
}

func TestEvolve_ConvergesAndRecords(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, "two.tiles", "tile plain count 2 {}\n")
	db := filepath.Join(dir, "runs.db")
	boardPath := filepath.Join(dir, "board.json")

	out, err := execute(t, "evolve",
		"--catalogue", cat,
		"-W", "2", "-H", "1",
		"-p", "4",
		"-j", "2",
		"--seed", "3",
		"--store", db,
		"--listen", "127.0.0.1:0",
		"--out", boardPath,
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "accepted: score 0 (c=0 e=0 u=0 t=0) after 1 generations, seed 3")

	data, err := os.ReadFile(boardPath)
	require.NoError(t, err)
	var snap tile.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 2, snap.Width)
	assert.Len(t, snap.Cells, 2)

	st, err := store.Open(db)
	require.NoError(t, err)
	runs, err := st.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	id := runs[0].ID
	assert.True(t, runs[0].Converged)
	assert.Equal(t, 0, runs[0].BestScore)
	assert.Equal(t, int64(3), runs[0].Seed)
	assert.Equal(t, cat, runs[0].Catalogue)
	gens, err := st.Progress(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, gens, 1)
	require.NoError(t, st.Close())

	out, err = execute(t, "runs", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, id.String())

	out, err = execute(t, "show", "--store", db, "--progress", id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "score 0 after 1 generations, converged true")
	assert.Contains(t, out, "GEN")

	out, err = execute(t, "score", "--catalogue", cat, "-q", boardPath)
	require.NoError(t, err)
	assert.Equal(t, "score 0 (c=0 e=0 u=0 t=0)\n", out)

	_, err = execute(t, "runs", "rm", "--store", db, id.String())
	require.NoError(t, err)
	_, err = execute(t, "show", "--store", db, id.String())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEvolve_RejectsInvalidFlags(t *testing.T) {
	_, err := execute(t, "evolve", "--mutation", "1.5")
	assert.ErrorIs(t, err, config.ErrInvalid)

	cat := writeFile(t, "three.tiles", "tile plain count 3 {}\n")
	_, err = execute(t, "evolve", "--catalogue", cat, "-W", "1", "-H", "2", "--log-level", "error")
	assert.Error(t, err, "board smaller than the catalogue")
}

func TestEvolve_StreamFailureLeavesNoRun(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cat := writeFile(t, "two.tiles", "tile plain count 2 {}\n")
	db := filepath.Join(t.TempDir(), "runs.db")
	_, err = execute(t, "evolve",
		"--catalogue", cat,
		"-W", "2", "-H", "1",
		"-p", "4",
		"--store", db,
		"--listen", busy.Addr().String(),
		"--log-level", "error",
	)
	require.Error(t, err, "address already in use")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestScore_UnknownTemplate(t *testing.T) {
	board := writeFile(t, "board.json",
		`{"width":1,"height":1,"cells":[{"index":0,"name":"nope","x":0,"y":0,"orientation":"left"}]}`)
	_, err := execute(t, "score", board)
	assert.ErrorIs(t, err, tile.ErrUnknownTemplate)
}

func TestErrors(t *testing.T) {
	_, err := execute(t, "tiles", "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "runs")
	assert.ErrorIs(t, err, errNoStore)

	_, err = execute(t, "show", "--store", filepath.Join(t.TempDir(), "x.db"), "not-an-id")
	assert.Error(t, err)
}
