// internal/output/api_conv.go
package output

import (
	"math"

	"irvaudit-core/condorcet"
	"irvaudit-core/election"
	"irvaudit-core/irv"
	"irvaudit-core/margin"
	"irvaudit/pkg/api"
)

// ToAPICandidates converts the roster to wire form.
func ToAPICandidates(e *election.Election) []api.CandidateV1 {
	out := make([]api.CandidateV1, len(e.Candidates))
	for i, c := range e.Candidates {
		out[i] = api.CandidateV1{ID: c.ID, Name: c.Name}
	}
	return out
}

// ToAPIResult converts one IRV count to wire form.
func ToAPIResult(e *election.Election, rules irv.Rules, res irv.Result, warns []irv.Warning) api.ResultV1 {
	rounds := make([]api.TallyV1, len(res.Rounds))
	for i, r := range res.Rounds {
		rounds[i] = api.TallyV1{Round: r.Round, Votes: r.Votes, Exhausted: r.Exhausted}
	}
	var ws []api.WarningV1
	for _, w := range warns {
		ws = append(ws, api.WarningV1{Round: w.Round, Tied: w.Tied, Eliminated: w.Eliminated})
	}
	return api.ResultV1{
		Rules:        rules.String(),
		Winner:       res.Winner,
		WinnerName:   e.Name(res.Winner),
		Rounds:       rounds,
		Eliminations: res.Eliminations,
		Warnings:     ws,
	}
}

// ToAPIMargin converts the bounds; exact is nil when no solver produced one.
func ToAPIMargin(b margin.Bounds, exact *int) *api.MarginV1 {
	m := &api.MarginV1{SimpleLower: b.Simple, Lower: b.Lower, Exact: exact}
	if b.Upper == math.MaxInt {
		m.UpperUnbounded = true
	} else {
		m.Upper = b.Upper
	}
	return m
}

// ToAPICondorcet converts the pairwise analysis; irvWinner feeds the
// agreement flag.
func ToAPICondorcet(e *election.Election, m *condorcet.Matrix, irvWinner int) *api.CondorcetV1 {
	n := m.Size()
	pairs := make([][]int, n)
	for i := 1; i <= n; i++ {
		row := make([]int, n)
		for j := 1; j <= n; j++ {
			if i != j {
				row[j-1] = m.Beats(i, j)
			}
		}
		pairs[i-1] = row
	}
	out := &api.CondorcetV1{Pairwise: pairs}
	if w, ok := m.Winner(); ok {
		out.HasWinner = true
		out.Winner = w
		out.WinnerName = e.Name(w)
		out.AgreesWithIRV = w == irvWinner
		if lb, ok := m.LowerBound(); ok {
			out.LowerBound = &lb
		}
	}
	return out
}
