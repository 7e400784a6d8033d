// Package history keeps a local record of past test runs so the next run
// can be given an estimated duration.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store records runs in a local SQLite database. A Store opened with
// enabled=false records nothing and estimates zero.
type Store struct {
	db *sql.DB
}

// Run is one finished test run.
type Run struct {
	RootDir   string // project the run belongs to
	Timestamp time.Time
	Duration  time.Duration
	Suites    int
	Tests     int
	ExitCode  int
	Packages  []PackageRun
}

// PackageRun is one package within a run.
type PackageRun struct {
	Package  string
	Duration time.Duration
	Status   string
}

// DefaultPath returns <user cache dir>/quiet/history.db.
func DefaultPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache dir: %w", err)
	}
	return filepath.Join(cacheDir, "quiet", "history.db"), nil
}

// Open opens (creating if needed) the history database at path.
func Open(path string, enabled bool) (*Store, error) {
	if !enabled {
		return &Store{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_dir TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		suites INTEGER NOT NULL,
		tests INTEGER NOT NULL,
		exit_code INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS package_runs (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		package TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_root_dir ON runs(root_dir, id);
	CREATE INDEX IF NOT EXISTS idx_package_runs_package ON package_runs(package);
	`
	if err := s.addRootDir(); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}

// addRootDir upgrades databases written before runs were scoped by project.
// Their runs keep an empty root_dir.
func (s *Store) addRootDir() error {
	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'runs'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	var found int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'root_dir'`).Scan(&found); err != nil {
		return err
	}
	if found > 0 {
		return nil
	}
	_, err = s.db.Exec(`ALTER TABLE runs ADD COLUMN root_dir TEXT NOT NULL DEFAULT ''`)
	return err
}

// RecordRun stores a run and its packages.
func (s *Store) RecordRun(run Run) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	res, err := tx.Exec(
		`INSERT INTO runs (root_dir, timestamp, duration_ms, suites, tests, exit_code) VALUES (?, ?, ?, ?, ?, ?)`,
		run.RootDir,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.Suites,
		run.Tests,
		run.ExitCode,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, p := range run.Packages {
		if _, err := tx.Exec(
			`INSERT INTO package_runs (run_id, package, duration_ms, status) VALUES (?, ?, ?, ?)`,
			runID, p.Package, p.Duration.Milliseconds(), p.Status,
		); err != nil {
			return fmt.Errorf("insert package %s: %w", p.Package, err)
		}
	}
	return tx.Commit()
}

// Estimate returns the duration in seconds of the most recent run under
// rootDir, or 0 when none has been recorded.
func (s *Store) Estimate(rootDir string) (float64, error) {
	if s.db == nil {
		return 0, nil
	}

	var ms int64
	err := s.db.QueryRow(`SELECT duration_ms FROM runs WHERE root_dir = ? ORDER BY id DESC LIMIT 1`, rootDir).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return float64(ms) / 1000, nil
}

// PackageDurations returns each package's duration in the most recent run
// under rootDir.
func (s *Store) PackageDurations(rootDir string) (map[string]time.Duration, error) {
	if s.db == nil {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT package, duration_ms
		FROM package_runs
		WHERE run_id = (SELECT MAX(id) FROM runs WHERE root_dir = ?)
	`, rootDir)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	durations := make(map[string]time.Duration)
	for rows.Next() {
		var pkg string
		var ms int64
		if err := rows.Scan(&pkg, &ms); err != nil {
			return nil, err
		}
		durations[pkg] = time.Duration(ms) * time.Millisecond
	}
	return durations, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
