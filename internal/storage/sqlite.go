// Package storage provides SQLite-based persistence for finished bot runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/stackbot/internal/bot"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished game.
type Run struct {
	ID        string
	Evaluator string
	Depth     int
	Seed      int64
	Score     int
	Lines     int
	Tetrises  int
	Pieces    int
	ToppedOut bool
	Board     string // final board, compact encoding
	CreatedAt time.Time
}

// RunFromSnapshot converts a final game snapshot into a Run.
func RunFromSnapshot(s bot.Snapshot) Run {
	return Run{
		Evaluator: s.Evaluator,
		Depth:     s.Depth,
		Seed:      s.Seed,
		Score:     s.Score,
		Lines:     s.Lines,
		Tetrises:  s.Tetrises,
		Pieces:    s.Pieces,
		ToppedOut: s.ToppedOut,
		Board:     s.Board,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			evaluator TEXT NOT NULL,
			depth INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			tetrises INTEGER NOT NULL DEFAULT 0,
			pieces INTEGER NOT NULL DEFAULT 0,
			topped_out INTEGER NOT NULL DEFAULT 0,
			board TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_evaluator ON runs(evaluator);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(evaluator, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run, assigning a new UUID when r.ID is empty.
// Returns the ID of the stored record.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, evaluator, depth, seed, score, lines, tetrises, pieces, topped_out, board)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Evaluator, r.Depth, r.Seed, r.Score, r.Lines,
		r.Tetrises, r.Pieces, r.ToppedOut, r.Board,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return r.ID, nil
}

// SaveRuns records several runs in one transaction.
func (s *Store) SaveRuns(runs []Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.Prepare(
		`INSERT INTO runs
		 (id, evaluator, depth, seed, score, lines, tetrises, pieces, topped_out, board)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range runs {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := stmt.Exec(
			r.ID, r.Evaluator, r.Depth, r.Seed, r.Score, r.Lines,
			r.Tetrises, r.Pieces, r.ToppedOut, r.Board,
		); err != nil {
			return fmt.Errorf("storage: cannot save run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit runs: %w", err)
	}
	return nil
}

// TopRuns retrieves the best N runs, ordered by score descending.
// An empty evaluator selects runs of every evaluator.
func (s *Store) TopRuns(evaluator string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, evaluator, depth, seed, score, lines, tetrises, pieces, topped_out, board, created_at
		 FROM runs
		 WHERE ? = '' OR evaluator = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		evaluator, evaluator, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Evaluator, &r.Depth, &r.Seed, &r.Score, &r.Lines,
			&r.Tetrises, &r.Pieces, &r.ToppedOut, &r.Board, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its ID. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	var r Run
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, evaluator, depth, seed, score, lines, tetrises, pieces, topped_out, board, created_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(
		&r.ID, &r.Evaluator, &r.Depth, &r.Seed, &r.Score, &r.Lines,
		&r.Tetrises, &r.Pieces, &r.ToppedOut, &r.Board, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// ClearRuns deletes all runs of the given evaluator.
func (s *Store) ClearRuns(evaluator string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE evaluator = ?", evaluator)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// EvaluatorStats contains aggregated statistics for one evaluator.
type EvaluatorStats struct {
	Evaluator string
	Runs      int
	BestScore int
	AvgScore  float64
	AvgLines  float64
	Tetrises  int
	ToppedOut int
	LastRun   time.Time
}

// TetrisRate returns the percentage of cleared lines that came from
// 4-line clears across all runs.
func (st *EvaluatorStats) TetrisRate() float64 {
	lines := st.AvgLines * float64(st.Runs)
	if lines == 0 {
		return 0
	}
	return 100 * float64(4*st.Tetrises) / lines
}

// Stats retrieves aggregated statistics for a specific evaluator.
func (s *Store) Stats(evaluator string) (*EvaluatorStats, error) {
	stats := &EvaluatorStats{Evaluator: evaluator}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(AVG(lines), 0), COALESCE(SUM(tetrises), 0),
		        COALESCE(SUM(topped_out), 0), MAX(created_at)
		 FROM runs WHERE evaluator = ?`,
		evaluator,
	).Scan(&stats.Runs, &stats.BestScore, &stats.AvgScore, &stats.AvgLines,
		&stats.Tetrises, &stats.ToppedOut, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get evaluator stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// Evaluators returns the names of every evaluator with stored runs, sorted.
func (s *Store) Evaluators() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT evaluator FROM runs ORDER BY evaluator`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query evaluators: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return names, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
