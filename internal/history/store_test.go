package history

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/HendryAvila/spt-forge/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_CreatesDataDirAndSchema(t *testing.T) {
	s := newTestStore(t)

	// A fresh store should answer queries with empty results, not errors.
	runs, err := s.Recent(5)
	if err != nil {
		t.Fatalf("Recent() on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Recent() on empty store = %d runs, want 0", len(runs))
	}
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}
	defer func() { openDB = orig }()

	if _, err := New(Config{DataDir: t.TempDir()}); err == nil {
		t.Fatal("New() should surface the open error")
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	result := &engine.ResolutionResult{
		Status:          engine.OutcomeMaxAttempts,
		Attempts:        3,
		Feedback:        "The requirement is incomplete.",
		MissingElements: []string{"principal", "resources"},
	}
	if err := s.RecordRun("allow devs to read the logs bucket", result); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Recent() = %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID == "" {
		t.Error("run should be assigned an ID")
	}
	if run.Requirement != "allow devs to read the logs bucket" {
		t.Errorf("requirement = %q", run.Requirement)
	}
	if run.Status != string(engine.OutcomeMaxAttempts) {
		t.Errorf("status = %q", run.Status)
	}
	if run.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", run.Attempts)
	}
	if run.MissingElements != "principal, resources" {
		t.Errorf("missing_elements = %q", run.MissingElements)
	}
	if run.CreatedAt == "" {
		t.Error("created_at should be set")
	}
}

func TestRecent_NewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		err := s.RecordRun("req", &engine.ResolutionResult{
			Status:   engine.OutcomeSuccess,
			Attempts: i + 1,
		})
		if err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	runs, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Recent(3) = %d runs, want 3", len(runs))
	}
	// Rows insert within the same second, so rowid breaks the tie.
	if runs[0].Attempts != 5 || runs[1].Attempts != 4 || runs[2].Attempts != 3 {
		t.Errorf("runs not newest-first: attempts = %d, %d, %d",
			runs[0].Attempts, runs[1].Attempts, runs[2].Attempts)
	}
}

func TestStats_CountsByOutcome(t *testing.T) {
	s := newTestStore(t)

	record := func(status engine.Outcome, attempts int) {
		t.Helper()
		if err := s.RecordRun("req", &engine.ResolutionResult{Status: status, Attempts: attempts}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	record(engine.OutcomeSuccess, 1)
	record(engine.OutcomeSuccess, 2)
	record(engine.OutcomeMaxAttempts, 3)
	record(engine.OutcomeError, 0)

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.TotalRuns != 4 {
		t.Errorf("TotalRuns = %d, want 4", stats.TotalRuns)
	}
	if stats.Successful != 2 {
		t.Errorf("Successful = %d, want 2", stats.Successful)
	}
	if stats.Unresolved != 1 {
		t.Errorf("Unresolved = %d, want 1", stats.Unresolved)
	}
	if stats.Errored != 1 {
		t.Errorf("Errored = %d, want 1", stats.Errored)
	}
	if stats.AvgAttempts != 1.5 {
		t.Errorf("AvgAttempts = %v, want 1.5", stats.AvgAttempts)
	}
	if stats.FirstRecorded == "" || stats.LastRecorded == "" {
		t.Error("timestamps should be recorded")
	}
}

func TestStats_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.TotalRuns != 0 || stats.AvgAttempts != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
