package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateRunAndLoadTraces(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.CreateRun("orders", "orders.csv")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	events := []EventRecord{
		{CaseID: "1", Activity: "a", Timestamp: base},
		{CaseID: "1", Activity: "b", Timestamp: base.Add(time.Minute)},
		{CaseID: "2", Activity: "a", Timestamp: base.Add(2 * time.Minute)},
		{CaseID: "2", Activity: "c", Timestamp: base.Add(3 * time.Minute)},
	}
	if err := s.InsertEvents(runID, events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}
	if err := s.UpdateRunStats(runID, 2, len(events), 2); err != nil {
		t.Fatalf("UpdateRunStats: %v", err)
	}

	run, err := s.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.NumCases != 2 || run.NumEvents != 4 {
		t.Errorf("unexpected run stats: %+v", run)
	}

	traces, err := s.LoadTraces(runID)
	if err != nil {
		t.Fatalf("LoadTraces: %v", err)
	}
	if len(traces) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(traces))
	}

	caseIDs := []string{"1", "2"}
	want := map[string][]string{"1": {"a", "b"}, "2": {"a", "c"}}
	for i, tr := range traces {
		caseID := caseIDs[i]
		activities := want[caseID]
		if len(tr) != len(activities) {
			t.Errorf("case %s: got %v, want %v", caseID, tr, activities)
			continue
		}
		for j := range activities {
			if tr[j] != activities[j] {
				t.Errorf("case %s: got %v, want %v", caseID, tr, activities)
				break
			}
		}
	}
}

func TestRecentRuns(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.CreateRun("first", "a.csv"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if _, err := s.CreateRun("second", "b.csv"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
