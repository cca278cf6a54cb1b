package resultstore

import (
	"context"
	"path/filepath"
	"testing"

	"irvaudit/pkg/api"
)

func sampleReport(runID, generatedAt string) *api.ReportV1 {
	exact := 2
	lb := 0
	return &api.ReportV1{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Source:      "sample.blt",
		Description: "Sample contest",
		Candidates: []api.CandidateV1{
			{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"},
		},
		Ballots: 5,
		Result: api.ResultV1{
			Rules:      "sf",
			Winner:     1,
			WinnerName: "Alice",
			Rounds:     []api.TallyV1{{Round: 1, Votes: map[int]int{1: 3, 2: 1}, Exhausted: 1}},
		},
		Margin: &api.MarginV1{SimpleLower: 0, Lower: 0, Upper: 2, Exact: &exact},
		Condorcet: &api.CondorcetV1{
			HasWinner: true, Winner: 1, WinnerName: "Alice",
			AgreesWithIRV: true, LowerBound: &lb,
		},
	}
}

func TestPutAndList(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, sampleReport("run-b", "2026-08-31T11:00:00Z")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, sampleReport("run-a", "2026-08-31T10:00:00Z")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].RunID != "run-a" || rows[1].RunID != "run-b" {
		t.Errorf("rows not ordered by created_at: %s, %s", rows[0].RunID, rows[1].RunID)
	}

	r := rows[0]
	if r.Winner != "Alice" || r.Rules != "sf" || r.Ballots != 5 || r.Candidates != 2 {
		t.Errorf("unexpected row: %+v", r)
	}
	if r.ExactMargin == nil || *r.ExactMargin != 2 {
		t.Errorf("exact margin = %v, want 2", r.ExactMargin)
	}
	if r.CondorcetWinner == nil || *r.CondorcetWinner != "Alice" {
		t.Errorf("condorcet winner = %v, want Alice", r.CondorcetWinner)
	}
	if r.CondorcetAgrees == nil || !*r.CondorcetAgrees {
		t.Errorf("condorcet agrees = %v, want true", r.CondorcetAgrees)
	}
}

func TestNullableColumns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	rep := sampleReport("run-min", "2026-08-31T12:00:00Z")
	rep.Margin = nil
	rep.Condorcet = nil
	if err := store.Put(context.Background(), rep); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rows, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	r := rows[0]
	if r.SimpleLower != nil || r.UpperBound != nil || r.ExactMargin != nil || r.CondorcetWinner != nil {
		t.Errorf("expected nil optional fields: %+v", r)
	}
}
