package blt

import (
	"bytes"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"irvaudit-core/tree"
)

const sample = `# five ballots, five candidates
5 1
1 1 2 3 0
1 1 - 4 0
1 4 2 1 2=3 0
1 5 0
1 -=- 2 0
0
"Alice"
"Bob"
"Carol"
"Dave"
"Eve"
"Sample contest"
`

func TestParseSample(t *testing.T) {
	e, err := Parse(strings.NewReader(sample), "sample.blt")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(e.Candidates) != 5 || e.Seats != 1 {
		t.Fatalf("candidates=%d seats=%d, want 5 and 1", len(e.Candidates), e.Seats)
	}
	if e.Name(3) != "Carol" {
		t.Errorf("Name(3) = %q, want Carol", e.Name(3))
	}
	if e.Description != "Sample contest" {
		t.Errorf("description = %q", e.Description)
	}
	if e.Ranks != 4 {
		t.Errorf("Ranks = %d, want 4", e.Ranks)
	}
	if e.Profile.Total() != 5 {
		t.Errorf("Total() = %d, want 5", e.Profile.Total())
	}

	continuing := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	counts, exhausted := e.Profile.FirstChoiceCounts(continuing)
	want := map[int]int{1: 2, 4: 1, 5: 1}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("first choices = %v, want %v", counts, want)
	}
	// The leading unknown overvote exhausts the last ballot entirely.
	if exhausted != 1 {
		t.Errorf("exhausted = %d, want 1", exhausted)
	}
}

func TestParseWeightsAndIDPrefix(t *testing.T) {
	in := `2 1
(1234) 3 1 2 0
2 2 0
0
"A"
"B"
"weighted"
`
	e, err := Parse(strings.NewReader(in), "w.blt")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts, _ := e.Profile.FirstChoiceCounts(map[int]bool{1: true, 2: true})
	if counts[1] != 3 || counts[2] != 2 {
		t.Errorf("counts = %v, want 1:3 2:2", counts)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantLine int
	}{
		{"empty input", "", 0},
		{"bad header", "x 1\n", 1},
		{"bad weight", "2 1\nx 1 0\n", 2},
		{"unterminated ballot", "2 1\n1 1 2\n", 2},
		{"bad rank token", "2 1\n1 1 zap 0\n", 2},
		{"missing names", "2 1\n1 1 0\n0\n\"A\"\n", 4},
		{"unknown candidate", "1 1\n1 2 0\n0\n\"A\"\n\"d\"\n", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in), "bad.blt")
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if perr.Path != "bad.blt" {
				t.Errorf("path = %q", perr.Path)
			}
			if perr.Line != tc.wantLine {
				t.Errorf("line = %d (%v), want %d", perr.Line, perr, tc.wantLine)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	e, err := Parse(strings.NewReader(sample), "sample.blt")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, e); err != nil {
		t.Fatalf("Write: %v", err)
	}
	re, err := Parse(bytes.NewReader(buf.Bytes()), "rewritten.blt")
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, buf.String())
	}

	if re.Description != e.Description || re.Seats != e.Seats {
		t.Errorf("metadata changed: %q/%d vs %q/%d", re.Description, re.Seats, e.Description, e.Seats)
	}
	got, want := re.Profile.Flatten(), e.Profile.Flatten()
	sortLines(got)
	sortLines(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("profiles differ after round trip:\n got %v\nwant %v", got, want)
	}
}

func sortLines(ls []tree.Line) {
	sort.Slice(ls, func(i, j int) bool {
		a, b := ls[i].Prefs, ls[j].Prefs
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}
