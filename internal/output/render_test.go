package output

import (
	"strings"
	"testing"

	"irvaudit/pkg/api"
)

func sampleReport() *api.ReportV1 {
	return &api.ReportV1{
		RunID:       "test-run",
		GeneratedAt: "2026-01-01T00:00:00Z",
		Source:      "council.blt",
		Description: "City Council",
		Candidates: []api.CandidateV1{
			{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}, {ID: 3, Name: "Carmen"},
		},
		Ballots: 9,
		Result: api.ResultV1{
			Rules:      "sf",
			Winner:     1,
			WinnerName: "Alpha",
			Rounds: []api.TallyV1{
				{Round: 1, Votes: map[int]int{1: 4, 2: 3, 3: 2}, Exhausted: 0},
				{Round: 2, Votes: map[int]int{1: 4, 2: 3}, Exhausted: 2},
			},
			Eliminations: [][]int{{3}, {2}},
		},
		Margin: &api.MarginV1{SimpleLower: 0, Lower: 0, Upper: 2},
	}
}

func TestRenderText(t *testing.T) {
	rep := sampleReport()
	rep.Condorcet = &api.CondorcetV1{Pairwise: [][]int{{0, 4, 0}, {0, 0, 0}, {0, 0, 0}}}

	var sb strings.Builder
	if err := RenderText(&sb, rep, false); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	want := "contest:    City Council\n" +
		"candidates: 3\n" +
		"ballots:    9\n" +
		"rules:      sf\n" +
		"\n" +
		"round 1: Alpha=4 Bravo=3 Carmen=2 exhausted=0\n" +
		"  eliminated: Carmen\n" +
		"round 2: Alpha=4 Bravo=3 exhausted=2\n" +
		"  eliminated: Bravo\n" +
		"\n" +
		"winner: Alpha (candidate 1)\n" +
		"\n" +
		"margin (ballot changes): simple >= 0, tight >= 0, upper <= 2\n" +
		"condorcet: no winner\n"
	if got := sb.String(); got != want {
		t.Errorf("RenderText:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTextHeaderAndUnbounded(t *testing.T) {
	rep := sampleReport()
	rep.Margin.UpperUnbounded = true
	exact := 1
	rep.Margin.Exact = &exact

	var sb strings.Builder
	if err := RenderText(&sb, rep, true); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	text := sb.String()
	for _, want := range []string{
		"# irvaudit report test-run",
		"# source council.blt",
		"upper unbounded",
		"exact = 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestRenderRoundsTSV(t *testing.T) {
	var sb strings.Builder
	if err := RenderRoundsTSV(&sb, sampleReport(), true); err != nil {
		t.Fatalf("RenderRoundsTSV: %v", err)
	}
	want := TSVRoundsHeader + "\n" +
		"1\t1\tAlpha\t4\tcontinuing\n" +
		"1\t2\tBravo\t3\tcontinuing\n" +
		"1\t3\tCarmen\t2\teliminated\n" +
		"1\t0\texhausted\t0\t-\n" +
		"2\t1\tAlpha\t4\twinner\n" +
		"2\t2\tBravo\t3\teliminated\n" +
		"2\t0\texhausted\t2\t-\n"
	if got := sb.String(); got != want {
		t.Errorf("RenderRoundsTSV:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderCondorcet(t *testing.T) {
	cands := []api.CandidateV1{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}}
	lb := 1
	c := &api.CondorcetV1{
		HasWinner: true, Winner: 1, WinnerName: "Alpha", LowerBound: &lb,
		Pairwise: [][]int{{0, 3}, {1, 0}},
	}

	var sb strings.Builder
	if err := RenderCondorcetText(&sb, cands, c, "City Council", true); err != nil {
		t.Fatalf("RenderCondorcetText: %v", err)
	}
	text := sb.String()
	for _, want := range []string{
		"contest: City Council",
		"beats >",
		"condorcet winner: Alpha (candidate 1), margin >= 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}

	sb.Reset()
	if err := RenderPairwiseTSV(&sb, cands, c, true); err != nil {
		t.Fatalf("RenderPairwiseTSV: %v", err)
	}
	want := TSVPairwiseHeader + "\n1\tAlpha\t2\tBravo\t3\t1\n"
	if got := sb.String(); got != want {
		t.Errorf("RenderPairwiseTSV:\n%s\nwant:\n%s", got, want)
	}
}
