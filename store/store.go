// Package store keeps a SQLite log of search runs: their configuration, the
// per-generation progress and the accepted board of every finished run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/tile"
)

// Sentinel errors for the run log.
var (
	// ErrNotFound is returned when a run or its board does not exist.
	ErrNotFound = errors.New("store: not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER,
	seed          INTEGER NOT NULL,
	width         INTEGER NOT NULL,
	height        INTEGER NOT NULL,
	population    INTEGER NOT NULL,
	mutation_rate REAL NOT NULL,
	catalogue     TEXT NOT NULL,
	tiles         INTEGER NOT NULL,
	generations   INTEGER NOT NULL DEFAULT 0,
	best_score    INTEGER,
	converged     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS progress (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	generation    INTEGER NOT NULL,
	score         INTEGER NOT NULL,
	clusters      INTEGER NOT NULL,
	edge_mismatch INTEGER NOT NULL,
	unclosed_town INTEGER NOT NULL,
	town_clusters INTEGER NOT NULL,
	mean          REAL NOT NULL,
	worst         INTEGER NOT NULL,
	PRIMARY KEY (run_id, generation)
);
CREATE TABLE IF NOT EXISTS boards (
	run_id   TEXT PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
	snapshot TEXT NOT NULL
);
`

// Run is one search run.
type Run struct {
	ID           ulid.ULID
	Started      time.Time
	Finished     time.Time // zero while running
	Seed         int64
	Width        int
	Height       int
	Population   int
	MutationRate float64
	Catalogue    string
	Tiles        int
	Generations  int
	BestScore    int // -1 until the run finishes
	Converged    bool
}

// Generation is one stored progress row.
type Generation struct {
	Generation int
	Score      int
	Breakdown  fitness.Breakdown
	Mean       float64
	Worst      int
}

// Store is the run log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the log at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// one connection serializes writers
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.execWrap(context.Background(), schema); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun inserts r. A zero ID is replaced by a fresh ULID and a zero
// Started by the current time; both are written back to r.
func (s *Store) CreateRun(ctx context.Context, r *Run) error {
	if r.ID == (ulid.ULID{}) {
		r.ID = ulid.Make()
	}
	if r.Started.IsZero() {
		r.Started = time.Now()
	}
	r.BestScore = -1
	return s.execWrap(ctx, `INSERT INTO runs
		(id, started_at, seed, width, height, population, mutation_rate, catalogue, tiles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Started.UnixMilli(), r.Seed, r.Width, r.Height,
		r.Population, r.MutationRate, r.Catalogue, r.Tiles)
}

// RecordProgress stores one generation of run id, replacing an earlier row
// for the same generation.
func (s *Store) RecordProgress(ctx context.Context, id ulid.ULID, p evolve.Progress) error {
	return s.execWrap(ctx, `INSERT OR REPLACE INTO progress
		(run_id, generation, score, clusters, edge_mismatch, unclosed_town, town_clusters, mean, worst)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), p.Generation, p.Score,
		p.Breakdown.Clusters, p.Breakdown.EdgeMismatch, p.Breakdown.UnclosedTown, p.Breakdown.TownClusters,
		p.Mean, p.Worst)
}

// FinishRun records the outcome of run id and stores the best board.
func (s *Store) FinishRun(ctx context.Context, id ulid.ULID, res evolve.Result, board *tile.Board) error {
	snap, err := json.Marshal(board.Snapshot())
	if err != nil {
		return fmt.Errorf("store: encode board: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx, `UPDATE runs
		SET finished_at = ?, generations = ?, best_score = ?, converged = ?
		WHERE id = ?`,
		time.Now().UnixMilli(), res.Generations, res.Best.Score, res.Converged, id.String())
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO boards (run_id, snapshot) VALUES (?, ?)`, id.String(), string(snap)); err != nil {
		return fmt.Errorf("store: save board: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, seed, width, height, population,
	mutation_rate, catalogue, tiles, generations, best_score, converged`

// Run loads run id.
func (s *Store) Run(ctx context.Context, id ulid.ULID) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return r, err
}

// Runs lists the most recent runs first. limit <= 0 lists all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Progress returns the stored generations of run id in order.
func (s *Store) Progress(ctx context.Context, id ulid.ULID) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT generation, score,
		clusters, edge_mismatch, unclosed_town, town_clusters, mean, worst
		FROM progress WHERE run_id = ? ORDER BY generation`, id.String())
	if err != nil {
		return nil, fmt.Errorf("store: list progress: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.Generation, &g.Score,
			&g.Breakdown.Clusters, &g.Breakdown.EdgeMismatch, &g.Breakdown.UnclosedTown, &g.Breakdown.TownClusters,
			&g.Mean, &g.Worst); err != nil {
			return nil, fmt.Errorf("store: scan progress: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Board returns the stored best board of run id.
func (s *Store) Board(ctx context.Context, id ulid.ULID) (tile.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM boards WHERE run_id = ?`, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return tile.Snapshot{}, fmt.Errorf("%w: board of run %s", ErrNotFound, id)
	}
	if err != nil {
		return tile.Snapshot{}, fmt.Errorf("store: load board: %w", err)
	}
	var snap tile.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return tile.Snapshot{}, fmt.Errorf("store: decode board: %w", err)
	}
	return snap, nil
}

// DeleteRun removes run id with its progress and board.
func (s *Store) DeleteRun(ctx context.Context, id ulid.ULID) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("store: delete run: %w", err)
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		id        string
		started   int64
		finished  sql.NullInt64
		best      sql.NullInt64
		converged bool
	)
	if err := sc.Scan(&id, &started, &finished, &r.Seed, &r.Width, &r.Height, &r.Population,
		&r.MutationRate, &r.Catalogue, &r.Tiles, &r.Generations, &best, &converged); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("store: run id %q: %w", id, err)
	}
	r.ID = parsed
	r.Started = time.UnixMilli(started)
	if finished.Valid {
		r.Finished = time.UnixMilli(finished.Int64)
	}
	r.BestScore = -1
	if best.Valid {
		r.BestScore = int(best.Int64)
	}
	r.Converged = converged
	return r, nil
}

func (s *Store) execWrap(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: exec: %w", err)
	}
	return nil
}
