package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dgallez/jobhawk/internal/model"
)

// SQLiteStore persists the job-id→status mapping in a SQLite database.
// Entries for ids that no longer appear in any fetch are kept: triage history
// survives source churn.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the job_status table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS job_status (
		job_id     TEXT PRIMARY KEY,
		status     TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_status table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the full id→status map. Rows holding a value outside the
// status enum (hand-edited db, older schema) are skipped rather than failing
// the whole load.
func (s *SQLiteStore) Load() (map[string]model.Status, error) {
	rows, err := s.db.Query("SELECT job_id, status FROM job_status")
	if err != nil {
		return nil, fmt.Errorf("loading job statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]model.Status)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning job status row: %w", err)
		}
		status, err := model.ParseStatus(raw)
		if err != nil {
			continue
		}
		statuses[id] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading job statuses: %w", err)
	}

	return statuses, nil
}

// Save upserts the status for a job id. Last write wins per id; the upsert is
// atomic, so concurrent writers cannot lose updates.
func (s *SQLiteStore) Save(jobID string, status model.Status) error {
	_, err := s.db.Exec(`INSERT INTO job_status (job_id, status) VALUES (?, ?)
		ON CONFLICT(job_id) DO UPDATE SET status = excluded.status, updated_at = CURRENT_TIMESTAMP`,
		jobID, string(status))
	if err != nil {
		return fmt.Errorf("saving status for %s: %w", jobID, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
