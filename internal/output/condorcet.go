// internal/output/condorcet.go
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"irvaudit/pkg/api"
)

// TSVPairwiseHeader is the header row for the pairwise table.
const TSVPairwiseHeader = "id_a\tcandidate_a\tid_b\tcandidate_b\ta_over_b\tb_over_a"

// RenderCondorcetText prints the pairwise matrix and the winner line.
func RenderCondorcetText(w io.Writer, cands []api.CandidateV1, c *api.CondorcetV1, description string, header bool) error {
	if header && description != "" {
		fmt.Fprintf(w, "contest: %s\n", description)
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprint(tw, "beats >")
	for _, cand := range cands {
		fmt.Fprintf(tw, "\t%s", cand.Name)
	}
	fmt.Fprintln(tw)
	for i, row := range c.Pairwise {
		fmt.Fprint(tw, cands[i].Name)
		for j, v := range row {
			if i == j {
				fmt.Fprint(tw, "\t-")
			} else {
				fmt.Fprintf(tw, "\t%d", v)
			}
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !c.HasWinner {
		_, err := fmt.Fprintln(w, "\nno condorcet winner")
		return err
	}
	fmt.Fprintf(w, "\ncondorcet winner: %s (candidate %d)", c.WinnerName, c.Winner)
	if c.LowerBound != nil {
		fmt.Fprintf(w, ", margin >= %d", *c.LowerBound)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderPairwiseTSV prints one row per unordered candidate pair.
func RenderPairwiseTSV(w io.Writer, cands []api.CandidateV1, c *api.CondorcetV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVPairwiseHeader); err != nil {
			return err
		}
	}
	for i := range cands {
		for j := i + 1; j < len(cands); j++ {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%d\n",
				cands[i].ID, cands[i].Name, cands[j].ID, cands[j].Name,
				c.Pairwise[i][j], c.Pairwise[j][i]); err != nil {
				return err
			}
		}
	}
	return nil
}
