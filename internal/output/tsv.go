// internal/output/tsv.go
package output

import (
	"fmt"
	"io"

	"irvaudit/pkg/api"
)

// TSVRoundsHeader is the canonical header row for the per-round table. Keep
// it the single source of truth for every TSV writer and test.
const TSVRoundsHeader = "round\tcandidate_id\tcandidate\tvotes\tstatus"

// Per-round candidate statuses.
const (
	StatusContinuing = "continuing"
	StatusEliminated = "eliminated"
	StatusWinner     = "winner"
)

// RenderRoundsTSV writes one row per (round, candidate) plus an exhausted
// row per round.
func RenderRoundsTSV(w io.Writer, rep *api.ReportV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVRoundsHeader); err != nil {
			return err
		}
	}
	names := make(map[int]string, len(rep.Candidates))
	for _, c := range rep.Candidates {
		names[c.ID] = c.Name
	}
	for i, round := range rep.Result.Rounds {
		elim := map[int]bool{}
		if i < len(rep.Result.Eliminations) {
			for _, id := range rep.Result.Eliminations[i] {
				elim[id] = true
			}
		}
		for _, id := range sortedIDs(round.Votes) {
			status := StatusContinuing
			switch {
			case elim[id]:
				status = StatusEliminated
			case i == len(rep.Result.Rounds)-1 && id == rep.Result.Winner:
				status = StatusWinner
			}
			if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n",
				round.Round, id, names[id], round.Votes[id], status); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%d\t0\texhausted\t%d\t-\n", round.Round, round.Exhausted); err != nil {
			return err
		}
	}
	return nil
}
