// Package report assembles the wire-format audit report from the core
// results, stamping each run with an id and timestamp.
package report

import (
	"time"

	"github.com/google/uuid"

	"irvaudit-core/condorcet"
	"irvaudit-core/election"
	"irvaudit-core/irv"
	"irvaudit-core/margin"
	"irvaudit/internal/output"
	"irvaudit/pkg/api"
)

// Inputs collects everything one audit run produced. Bounds, Exact, and
// Condorcet are optional; nil sections are omitted from the report.
type Inputs struct {
	Source    string
	Election  *election.Election
	Rules     irv.Rules
	Result    irv.Result
	Warnings  []irv.Warning
	Bounds    *margin.Bounds
	Exact     *int
	Condorcet *condorcet.Matrix
}

// Build assembles a ReportV1 with a fresh run id.
func Build(in Inputs) api.ReportV1 {
	rep := api.ReportV1{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      in.Source,
		Description: in.Election.Description,
		Candidates:  output.ToAPICandidates(in.Election),
		Ballots:     in.Election.Profile.Total(),
		Result:      output.ToAPIResult(in.Election, in.Rules, in.Result, in.Warnings),
	}
	if in.Bounds != nil {
		rep.Margin = output.ToAPIMargin(*in.Bounds, in.Exact)
	}
	if in.Condorcet != nil {
		rep.Condorcet = output.ToAPICondorcet(in.Election, in.Condorcet, in.Result.Winner)
	}
	return rep
}
