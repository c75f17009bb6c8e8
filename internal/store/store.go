// Package store persists landmarking runs to SQLite so repeated runs over a
// case cohort can be compared without re-reading the export files.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vasctools/siphon/internal/centerline"
	"github.com/vasctools/siphon/internal/landmark"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating if needed) the run database at path and applies any
// pending migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies all pending schema migrations. Already being at the latest
// version is not an error.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Run is one persisted landmarking run over a case.
type Run struct {
	RunID       string
	CaseID      string
	Algorithm   string
	Method      string
	State       string
	CreatedAtNs int64
}

// RunStore provides persistence for landmarking runs and their landmarks.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore backed by the given database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// InsertRun records a run and its landmark set in one transaction. If
// run.RunID is empty a new UUID is generated.
func (s *RunStore) InsertRun(run *Run, landmarks *landmark.Set) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO landmark_runs (run_id, case_id, algorithm, method, state, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CaseID, run.Algorithm, run.Method, run.State, run.CreatedAtNs)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, lm := range landmarks.Landmarks() {
		_, err = tx.Exec(`
			INSERT INTO landmarks (run_id, ordinal, name, x, y, z)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.RunID, i, lm.Name, lm.Point.X, lm.Point.Y, lm.Point.Z)
		if err != nil {
			return fmt.Errorf("insert landmark %q: %w", lm.Name, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, case_id, algorithm, method, state, created_at_ns
		FROM landmark_runs WHERE run_id = ?
	`, runID)

	var run Run
	err := row.Scan(&run.RunID, &run.CaseID, &run.Algorithm, &run.Method, &run.State, &run.CreatedAtNs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// Landmarks reconstructs the landmark set of a run, in stored order.
func (s *RunStore) Landmarks(runID string) (*landmark.Set, error) {
	rows, err := s.db.Query(`
		SELECT name, x, y, z FROM landmarks
		WHERE run_id = ? ORDER BY ordinal
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query landmarks: %w", err)
	}
	defer rows.Close()

	set := landmark.NewSet()
	for rows.Next() {
		var name string
		var p centerline.Point
		if err := rows.Scan(&name, &p.X, &p.Y, &p.Z); err != nil {
			return nil, fmt.Errorf("scan landmark: %w", err)
		}
		if err := set.Add(name, p); err != nil {
			return nil, err
		}
	}
	return set, rows.Err()
}

// ListByCase returns all runs over a case, newest first.
func (s *RunStore) ListByCase(caseID string) ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, case_id, algorithm, method, state, created_at_ns
		FROM landmark_runs WHERE case_id = ?
		ORDER BY created_at_ns DESC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.CaseID, &run.Algorithm, &run.Method, &run.State, &run.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
