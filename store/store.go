// Package store provides SQLite-based persistence for ingested event logs:
// runs and their events. Discovered process models are not stored.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles SQLite database operations for run logging.
type Store struct {
	db *sql.DB
}

// Run represents one ingested event log.
type Run struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SourcePath  string    `json:"source_path"`
	IngestedAt  time.Time `json:"ingested_at"`
	NumCases    int       `json:"num_cases"`
	NumEvents   int       `json:"num_events"`
	NumVariants int       `json:"num_variants"`
}

// EventRecord is a single event belonging to a run's log, in the shape
// the mining core's ingestion boundary expects: case id, activity,
// timestamp, plus the resource attribute discarded before the core ever
// sees it.
type EventRecord struct {
	CaseID    string
	Activity  string
	Timestamp time.Time
	Resource  string
}

// New creates a new Store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		source_path TEXT NOT NULL DEFAULT '',
		ingested_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		num_cases INTEGER DEFAULT 0,
		num_events INTEGER DEFAULT 0,
		num_variants INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		case_id TEXT NOT NULL,
		activity TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		resource TEXT,
		seq INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
	CREATE INDEX IF NOT EXISTS idx_events_run_case ON events(run_id, case_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateRun inserts a new run record and returns its id.
func (s *Store) CreateRun(name, sourcePath string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (name, source_path, ingested_at) VALUES (?, ?, ?)`,
		name, sourcePath, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertEvents writes a batch of events for a run, preserving the order
// given (per-case sequence is derived from insertion order, not the
// timestamp, so traces round-trip exactly as ingested).
func (s *Store) InsertEvents(runID int64, events []EventRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO events (run_id, case_id, activity, timestamp, resource, seq)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	seqByCase := make(map[string]int)
	for _, e := range events {
		seq := seqByCase[e.CaseID]
		if _, err := stmt.Exec(runID, e.CaseID, e.Activity, e.Timestamp, e.Resource, seq); err != nil {
			tx.Rollback()
			return err
		}
		seqByCase[e.CaseID] = seq + 1
	}

	return tx.Commit()
}

// UpdateRunStats records the case/event/variant counts for a run after
// ingestion.
func (s *Store) UpdateRunStats(runID int64, numCases, numEvents, numVariants int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET num_cases = ?, num_events = ?, num_variants = ? WHERE id = ?`,
		numCases, numEvents, numVariants, runID,
	)
	return err
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, name, source_path, ingested_at, num_cases, num_events, num_variants
		 FROM runs WHERE id = ?`, id,
	)
	var r Run
	if err := row.Scan(&r.ID, &r.Name, &r.SourcePath, &r.IngestedAt, &r.NumCases, &r.NumEvents, &r.NumVariants); err != nil {
		return nil, err
	}
	return &r, nil
}

// RecentRuns returns the most recently ingested runs.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, name, source_path, ingested_at, num_cases, num_events, num_variants
		 FROM runs ORDER BY ingested_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Name, &r.SourcePath, &r.IngestedAt, &r.NumCases, &r.NumEvents, &r.NumVariants); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, nil
}

// LoadTraces reconstructs activity-sequence traces for a run, one per
// case id, ordered by case id then per-case sequence.
func (s *Store) LoadTraces(runID int64) ([][]string, error) {
	rows, err := s.db.Query(
		`SELECT case_id, activity FROM events WHERE run_id = ? ORDER BY case_id, seq`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traces [][]string
	var order []string
	byCase := make(map[string][]string)
	for rows.Next() {
		var caseID, activity string
		if err := rows.Scan(&caseID, &activity); err != nil {
			return nil, err
		}
		if _, seen := byCase[caseID]; !seen {
			order = append(order, caseID)
		}
		byCase[caseID] = append(byCase[caseID], activity)
	}
	for _, caseID := range order {
		traces = append(traces, byCase[caseID])
	}
	return traces, nil
}
