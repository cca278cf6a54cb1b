// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"irvaudit-core/blt"
	"irvaudit/internal/app"
	"irvaudit/internal/condorcetapp"
	"irvaudit/internal/convertapp"
	"irvaudit/internal/countapp"
	"irvaudit/internal/tableapp"
	"irvaudit/pkg/api"
)

const fixture = `# integration fixture
3 1
4 1 2 0
3 2 0
2 3 0
0
"Alpha"
"Bravo"
"Carmen"
"City Council"
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "council.blt")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IRVAUDIT_CONFIG", "")
	t.Setenv("IRVAUDIT_SOLVER_URL", "")
	t.Setenv("IRVAUDIT_STORE", "")
}

func TestAuditEndToEnd(t *testing.T) {
	clearEnv(t)
	path := writeFixture(t)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{path}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	text := out.String()
	for _, want := range []string{
		"contest:    City Council",
		"winner: Alpha (candidate 1)",
		"margin (ballot changes):",
		"condorcet: no winner",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestAuditJSONAndStore(t *testing.T) {
	clearEnv(t)
	path := writeFixture(t)
	store := filepath.Join(t.TempDir(), "runs.db")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"-o", "json", "--store", store, path}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	var rep api.ReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("bad report JSON: %v", err)
	}
	if rep.Result.Winner != 1 {
		t.Fatalf("report winner = %+v, want candidate 1", rep.Result)
	}
	if rep.Margin == nil {
		t.Error("report missing margin section")
	}
	if rep.RunID == "" {
		t.Error("report missing run id")
	}

	out.Reset()
	errBuf.Reset()
	code = tableapp.Run([]string{"--store", store, "-o", "tsv"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("irvtable exit %d, stderr=%s", code, errBuf.String())
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("irvtable rows = %d, want header + 1:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[1], "Alpha") || !strings.Contains(lines[1], "City Council") {
		t.Errorf("run row = %q", lines[1])
	}
}

func TestCountJSONLStreamsRounds(t *testing.T) {
	path := writeFixture(t)

	var out, errBuf bytes.Buffer
	code := countapp.Run([]string{"-o", "jsonl", path}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("rounds = %d, want 2:\n%s", len(lines), out.String())
	}
	for i, line := range lines {
		var tally api.TallyV1
		if err := json.Unmarshal([]byte(line), &tally); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if tally.Round != i+1 {
			t.Errorf("line %d round = %d", i, tally.Round)
		}
	}
}

func TestCondorcetPairwiseTSV(t *testing.T) {
	path := writeFixture(t)

	var out, errBuf bytes.Buffer
	code := condorcetapp.Run([]string{"-o", "tsv", path}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}
	// Only the 4 Alpha>Bravo ballots rank two candidates together.
	if !strings.Contains(out.String(), "1\tAlpha\t2\tBravo\t4\t0") {
		t.Errorf("pairwise output:\n%s", out.String())
	}
}

func TestConvertThenParse(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "master.txt")
	image := filepath.Join(dir, "image.txt")

	masterText := strings.Join([]string{
		fmt.Sprintf("Contest   %7d%-50s", 20, "City Council"),
		fmt.Sprintf("Candidate %7d%-50s%7d%7d", 101, "ALICE", 1, 20),
		fmt.Sprintf("Candidate %7d%-50s%7d%7d", 102, "BOB", 2, 20),
	}, "\n")
	imageText := strings.Join([]string{
		fmt.Sprintf("%7d%9d%10s%7d%3d%7d00", 20, 1, "", 5, 1, 101),
		fmt.Sprintf("%7d%9d%10s%7d%3d%7d00", 20, 1, "", 5, 2, 102),
		fmt.Sprintf("%7d%9d%10s%7d%3d%7d00", 20, 2, "", 5, 1, 102),
	}, "\n")
	if err := os.WriteFile(master, []byte(masterText), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(image, []byte(imageText), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errBuf bytes.Buffer
	code := convertapp.Run([]string{image, master}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errBuf.String())
	}

	e, err := blt.Parse(bytes.NewReader(out.Bytes()), "converted.blt")
	if err != nil {
		t.Fatalf("converted output does not parse: %v", err)
	}
	if got := e.Name(1); got != "ALICE" {
		t.Errorf("candidate 1 = %q, want ALICE", got)
	}
	if e.Description != "City Council" {
		t.Errorf("description = %q", e.Description)
	}
	if e.Profile.Total() != 2 {
		t.Errorf("ballots = %d, want 2", e.Profile.Total())
	}
}

func TestUsageAndErrorExitCodes(t *testing.T) {
	clearEnv(t)
	path := writeFixture(t)

	var out, errBuf bytes.Buffer
	if code := app.Run(nil, &out, &errBuf); code != 0 {
		t.Errorf("no args: exit %d, want 0 (usage)", code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("no usage text:\n%s", out.String())
	}

	out.Reset()
	errBuf.Reset()
	if code := app.Run([]string{"--bogus", path}, &out, &errBuf); code != 2 {
		t.Errorf("bad flag: exit %d, want 2", code)
	}

	out.Reset()
	errBuf.Reset()
	if code := app.Run([]string{filepath.Join(t.TempDir(), "missing.blt")}, &out, &errBuf); code != 2 {
		t.Errorf("missing file: exit %d, want 2", code)
	}

	out.Reset()
	errBuf.Reset()
	if code := app.Run([]string{"--rules", "borda", path}, &out, &errBuf); code != 2 {
		t.Errorf("bad rules: exit %d, want 2", code)
	}
}
