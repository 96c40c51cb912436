package store

import (
	"path/filepath"
	"testing"

	"github.com/dgallez/jobhawk/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_EmptyLoad(t *testing.T) {
	s := newTestStore(t)

	statuses, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("expected empty map from a fresh store, got %v", statuses)
	}
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("forem-1", model.StatusInterested); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("careers-leonidas-x", model.StatusApplied); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	statuses, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(statuses))
	}
	if statuses["forem-1"] != model.StatusInterested {
		t.Errorf("expected INTERESTED, got %s", statuses["forem-1"])
	}
	if statuses["careers-leonidas-x"] != model.StatusApplied {
		t.Errorf("expected APPLIED, got %s", statuses["careers-leonidas-x"])
	}
}

func TestSQLiteStore_UpsertLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("forem-1", model.StatusNew); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save("forem-1", model.StatusRejected); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	statuses, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected a single entry after upsert, got %d", len(statuses))
	}
	if statuses["forem-1"] != model.StatusRejected {
		t.Errorf("expected the latest write, got %s", statuses["forem-1"])
	}
}

func TestSQLiteStore_InvalidRowsSkipped(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("forem-1", model.StatusOffer); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// Simulate a hand-edited db holding a value outside the enum.
	if _, err := s.db.Exec("INSERT INTO job_status (job_id, status) VALUES (?, ?)", "forem-2", "MAYBE"); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	statuses, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Errorf("expected the invalid row to be skipped, got %v", statuses)
	}
	if _, ok := statuses["forem-2"]; ok {
		t.Error("invalid status row should not be loaded")
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Save("forem-1", model.StatusInterview); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	statuses, err := reopened.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if statuses["forem-1"] != model.StatusInterview {
		t.Errorf("expected status to survive reopen, got %v", statuses)
	}
}
