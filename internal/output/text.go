// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"irvaudit/pkg/api"
)

// RenderText writes the human-readable audit report.
func RenderText(w io.Writer, rep *api.ReportV1, header bool) error {
	if header {
		fmt.Fprintf(w, "# irvaudit report %s\n", rep.RunID)
		fmt.Fprintf(w, "# generated %s\n", rep.GeneratedAt)
		if rep.Source != "" {
			fmt.Fprintf(w, "# source %s\n", rep.Source)
		}
	}
	if rep.Description != "" {
		fmt.Fprintf(w, "contest:    %s\n", rep.Description)
	}
	fmt.Fprintf(w, "candidates: %d\n", len(rep.Candidates))
	fmt.Fprintf(w, "ballots:    %s\n", humanize.Comma(int64(rep.Ballots)))
	fmt.Fprintf(w, "rules:      %s\n\n", rep.Result.Rules)

	names := make(map[int]string, len(rep.Candidates))
	for _, c := range rep.Candidates {
		names[c.ID] = c.Name
	}

	for i, round := range rep.Result.Rounds {
		fmt.Fprintf(w, "round %d:", round.Round)
		for _, id := range sortedIDs(round.Votes) {
			fmt.Fprintf(w, " %s=%s", names[id], humanize.Comma(int64(round.Votes[id])))
		}
		fmt.Fprintf(w, " exhausted=%s\n", humanize.Comma(int64(round.Exhausted)))
		if i < len(rep.Result.Eliminations) {
			fmt.Fprintf(w, "  eliminated: %s\n", nameList(names, rep.Result.Eliminations[i]))
		}
	}
	for _, warn := range rep.Result.Warnings {
		fmt.Fprintf(w, "note: round %d tie among %s; removed %s\n",
			warn.Round, nameList(names, warn.Tied), names[warn.Eliminated])
	}
	fmt.Fprintf(w, "\nwinner: %s (candidate %d)\n", rep.Result.WinnerName, rep.Result.Winner)

	if m := rep.Margin; m != nil {
		fmt.Fprintf(w, "\nmargin (ballot changes): simple >= %d, tight >= %d", m.SimpleLower, m.Lower)
		if m.UpperUnbounded {
			fmt.Fprintf(w, ", upper unbounded")
		} else {
			fmt.Fprintf(w, ", upper <= %d", m.Upper)
		}
		if m.Exact != nil {
			fmt.Fprintf(w, ", exact = %d", *m.Exact)
		}
		fmt.Fprintln(w)
	}

	if c := rep.Condorcet; c != nil {
		if !c.HasWinner {
			fmt.Fprintf(w, "condorcet: no winner\n")
		} else {
			agree := "disagrees with IRV"
			if c.AgreesWithIRV {
				agree = "agrees with IRV"
			}
			fmt.Fprintf(w, "condorcet: winner %s (%s)", c.WinnerName, agree)
			if c.LowerBound != nil {
				fmt.Fprintf(w, ", margin >= %d", *c.LowerBound)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func sortedIDs(votes map[int]int) []int {
	ids := make([]int, 0, len(votes))
	for id := range votes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func nameList(names map[int]string, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = names[id]
	}
	return strings.Join(parts, ", ")
}
