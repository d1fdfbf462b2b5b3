// Package storage keeps a log of finished rides in SQLite, using the
// pure-Go modernc.org/sqlite driver so no CGO is needed.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished ride.
type Run struct {
	ID        int64
	Player    string
	Seed      uint32
	Distance  int // tiles travelled
	Chunks    int // chunks generated
	Degraded  int // chunks that needed the placeholder tile
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL,
			distance INTEGER NOT NULL,
			chunks INTEGER NOT NULL DEFAULT 0,
			degraded INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_distance ON runs(distance DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
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

// SaveRun records a finished ride and returns its id.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (player, seed, distance, chunks, degraded, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Player, int64(r.Seed), r.Distance, r.Chunks, r.Degraded, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopRuns returns the longest rides, furthest first.
func (s *Store) TopRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player, seed, distance, chunks, degraded, duration_ms, created_at
		 FROM runs
		 ORDER BY distance DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RunsForSeed returns every ride on one seed, furthest first.
func (s *Store) RunsForSeed(seed uint32) ([]Run, error) {
	return s.queryRuns(
		`SELECT id, player, seed, distance, chunks, degraded, duration_ms, created_at
		 FROM runs
		 WHERE seed = ?
		 ORDER BY distance DESC, id ASC`,
		int64(seed),
	)
}

// BestDistance returns the longest ride recorded, or 0 if there is none.
func (s *Store) BestDistance() (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(distance) FROM runs").Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: cannot query best distance: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// ClearRuns deletes every recorded ride.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			seed       int64
			durationMS int64
			createdAt  any
		)
		if err := rows.Scan(&r.ID, &r.Player, &seed, &r.Distance, &r.Chunks, &r.Degraded, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Seed = uint32(seed)
		r.Duration = time.Duration(durationMS) * time.Millisecond

		// The driver may hand back either a time.Time or a string.
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
