// Package history persists training progress in SQLite so baseline
// scores and hyperparameters of long runs survive restarts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at    INTEGER NOT NULL,
    model_path    TEXT NOT NULL,
    samples       INTEGER NOT NULL,
    std           REAL NOT NULL,
    learning_rate REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS iterations (
    run_id        INTEGER NOT NULL REFERENCES runs(id),
    iteration     INTEGER NOT NULL,
    recorded_at   INTEGER NOT NULL,
    random_score  REAL NOT NULL,
    minimax_score REAL NOT NULL,
    duration_ms   INTEGER NOT NULL,
    PRIMARY KEY (run_id, iteration)
);
`

// Run describes one training invocation.
type Run struct {
	ID           int64
	StartedAt    time.Time
	ModelPath    string
	Samples      int
	Std          float64
	LearningRate float64
}

// Iteration is the measured outcome of one training step.
type Iteration struct {
	RunID        int64
	Iteration    int
	RecordedAt   time.Time
	RandomScore  float64
	MinimaxScore float64
	Duration     time.Duration
}

// Store is a SQLite-backed training history.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records a new training run and returns its id.
func (s *Store) StartRun(ctx context.Context, run Run) (int64, error) {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, model_path, samples, std, learning_rate)
		 VALUES (?, ?, ?, ?, ?)`,
		startedAt.UTC().UnixMilli(), run.ModelPath, run.Samples, run.Std, run.LearningRate)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// RecordIteration stores the outcome of one training step.
func (s *Store) RecordIteration(ctx context.Context, it Iteration) error {
	recordedAt := it.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO iterations (run_id, iteration, recorded_at, random_score, minimax_score, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		it.RunID, it.Iteration, recordedAt.UTC().UnixMilli(),
		it.RandomScore, it.MinimaxScore, it.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert iteration: %w", err)
	}
	return nil
}

// Iterations returns the recorded iterations of a run in order.
func (s *Store) Iterations(ctx context.Context, runID int64) ([]Iteration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, iteration, recorded_at, random_score, minimax_score, duration_ms
		 FROM iterations WHERE run_id = ? ORDER BY iteration`, runID)
	if err != nil {
		return nil, fmt.Errorf("query iterations: %w", err)
	}
	defer rows.Close()

	var iterations []Iteration
	for rows.Next() {
		var it Iteration
		var recordedAt, durationMs int64
		if err := rows.Scan(&it.RunID, &it.Iteration, &recordedAt,
			&it.RandomScore, &it.MinimaxScore, &durationMs); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		it.RecordedAt = time.UnixMilli(recordedAt).UTC()
		it.Duration = time.Duration(durationMs) * time.Millisecond
		iterations = append(iterations, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate iterations: %w", err)
	}
	return iterations, nil
}

// LastRun returns the most recently started run, or sql.ErrNoRows
// when the history is empty.
func (s *Store) LastRun(ctx context.Context) (Run, error) {
	var run Run
	var startedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, model_path, samples, std, learning_rate
		 FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&run.ID, &startedAt, &run.ModelPath, &run.Samples, &run.Std, &run.LearningRate)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	return run, nil
}
