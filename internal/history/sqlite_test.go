package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndListRuns(t *testing.T) {
	repo := InitDB(filepath.Join(t.TempDir(), "history.db"))
	defer repo.Close()

	base := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	runs := []Run{
		{Site: "coles", Status: "success", Products: 120, Pages: 20, Duration: 90 * time.Second, StartedAt: base},
		{Site: "coles", Status: "failed", Error: "first page failed: navigation timeout", StartedAt: base.Add(7 * 24 * time.Hour)},
		{Site: "woolworths", Status: "success", Products: 300, Pages: 10, StartedAt: base},
	}
	for _, run := range runs {
		if err := repo.RecordRun(run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	got, err := repo.RecentRuns("coles", 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Status != "failed" {
		t.Errorf("newest run status = %q, want failed (most recent first)", got[0].Status)
	}
	if got[1].Products != 120 || got[1].Duration != 90*time.Second {
		t.Errorf("older run = %+v, want products 120 and duration 90s", got[1])
	}
}

func TestRecentRunsEmptySite(t *testing.T) {
	repo := InitDB(filepath.Join(t.TempDir(), "history.db"))
	defer repo.Close()

	got, err := repo.RecentRuns("ozbargain", 5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
