// internal/writers/xlsx.go
package writers

import (
	"io"

	"github.com/xuri/excelize/v2"

	"irvaudit/pkg/api"
)

func init() {
	RegisterReport("xlsx", writeXLSX)
}

// sheetWriter accumulates the first cell error so callers can write rows
// without per-cell error plumbing.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (s *sheetWriter) set(col, row int, v any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell, v)
}

// writeXLSX emits a three-sheet audit workbook: Summary, Rounds, and (when
// the pairwise analysis ran) Pairwise.
func writeXLSX(w io.Writer, rep *api.ReportV1, _ bool) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	sw := &sheetWriter{f: f, sheet: summary}
	rows := [][2]any{
		{"run_id", rep.RunID},
		{"generated_at", rep.GeneratedAt},
		{"source", rep.Source},
		{"contest", rep.Description},
		{"candidates", len(rep.Candidates)},
		{"ballots", rep.Ballots},
		{"rules", rep.Result.Rules},
		{"winner", rep.Result.WinnerName},
		{"rounds", len(rep.Result.Rounds)},
	}
	if m := rep.Margin; m != nil {
		rows = append(rows,
			[2]any{"margin_simple_lower", m.SimpleLower},
			[2]any{"margin_lower", m.Lower},
		)
		if !m.UpperUnbounded {
			rows = append(rows, [2]any{"margin_upper", m.Upper})
		}
		if m.Exact != nil {
			rows = append(rows, [2]any{"margin_exact", *m.Exact})
		}
	}
	if c := rep.Condorcet; c != nil {
		if c.HasWinner {
			rows = append(rows,
				[2]any{"condorcet_winner", c.WinnerName},
				[2]any{"condorcet_agrees_with_irv", c.AgreesWithIRV},
			)
		} else {
			rows = append(rows, [2]any{"condorcet_winner", "none"})
		}
	}
	for i, kv := range rows {
		sw.set(1, i+1, kv[0])
		sw.set(2, i+1, kv[1])
	}
	if sw.err != nil {
		return sw.err
	}

	if _, err := f.NewSheet("Rounds"); err != nil {
		return err
	}
	rw := &sheetWriter{f: f, sheet: "Rounds"}
	rw.set(1, 1, "round")
	rw.set(2, 1, "exhausted")
	for i, c := range rep.Candidates {
		rw.set(3+i, 1, c.Name)
	}
	for i, round := range rep.Result.Rounds {
		rw.set(1, i+2, round.Round)
		rw.set(2, i+2, round.Exhausted)
		for j, c := range rep.Candidates {
			if v, ok := round.Votes[c.ID]; ok {
				rw.set(3+j, i+2, v)
			}
		}
	}
	if rw.err != nil {
		return rw.err
	}

	if c := rep.Condorcet; c != nil && c.Pairwise != nil {
		if _, err := f.NewSheet("Pairwise"); err != nil {
			return err
		}
		pw := &sheetWriter{f: f, sheet: "Pairwise"}
		for i, cand := range rep.Candidates {
			pw.set(1, i+2, cand.Name)
			pw.set(i+2, 1, cand.Name)
		}
		for i, row := range c.Pairwise {
			for j, v := range row {
				if i != j {
					pw.set(j+2, i+2, v)
				}
			}
		}
		if pw.err != nil {
			return pw.err
		}
	}

	return f.Write(w)
}
