// Package election defines the immutable Election value consumed by every
// engine, and the validation applied before any engine runs.
package election

import (
	"fmt"

	"irvaudit-core/ballot"
	"irvaudit-core/tree"
)

// Candidate pairs a dense 1-based id with a display name. The ascending id
// order is the fixed total order used for every deterministic tie-break.
type Candidate struct {
	ID   int
	Name string
}

// Election holds everything the engines need: the candidate roster, the seat
// count, the cleaned-ballot tree, and a description. It is constructed once
// and never mutated; engines clone the profile when they need to reduce it.
type Election struct {
	Candidates  []Candidate
	Seats       int
	Ranks       int // maximum number of ranks a voter could mark
	Description string
	Profile     *tree.Tree
}

// ValidationError reports a malformed election rejected before any engine
// ran.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid election: " + e.Reason }

func invalidf(format string, a ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, a...)}
}

// New validates the inputs and builds an Election, cleaning each ballot and
// inserting it into the profile tree. It returns a *ValidationError when the
// seat count is not 1, a ballot has non-positive weight, or any rank token
// references a candidate id outside 1..len(names).
func New(names []string, seats int, description string, ballots []ballot.Ballot) (*Election, error) {
	if seats != 1 {
		return nil, invalidf("seat count %d not supported (single-seat only)", seats)
	}
	if len(names) == 0 {
		return nil, invalidf("no candidates")
	}
	n := len(names)

	ranks := 0
	t := tree.New()
	for i, b := range ballots {
		if b.Weight <= 0 {
			return nil, invalidf("ballot %d: non-positive weight %d", i+1, b.Weight)
		}
		for _, r := range b.Ranks {
			for _, c := range r.Candidates {
				if c < 1 || c > n {
					return nil, invalidf("ballot %d: unknown candidate id %d", i+1, c)
				}
			}
		}
		if len(b.Ranks) > ranks {
			ranks = len(b.Ranks)
		}
		t.Insert(b.Clean(), b.Weight)
	}
	// Every candidate gets a root child, so reduced trees keep zero-vote
	// candidates visible as continuing.
	for c := 1; c <= n; c++ {
		t.EnsureChild(t.Root(), c)
	}

	cands := make([]Candidate, n)
	for i, name := range names {
		cands[i] = Candidate{ID: i + 1, Name: name}
	}
	return &Election{
		Candidates:  cands,
		Seats:       seats,
		Ranks:       ranks,
		Description: description,
		Profile:     t,
	}, nil
}

// Name returns the display name for a candidate id, or an id placeholder for
// ids outside the roster.
func (e *Election) Name(id int) string {
	if id >= 1 && id <= len(e.Candidates) {
		return e.Candidates[id-1].Name
	}
	return fmt.Sprintf("candidate %d", id)
}

// CandidateIDs returns all candidate ids in ascending order.
func (e *Election) CandidateIDs() []int {
	ids := make([]int, len(e.Candidates))
	for i := range e.Candidates {
		ids[i] = i + 1
	}
	return ids
}
