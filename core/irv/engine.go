// Package irv runs instant-runoff elimination rounds over a ballot tree
// under one of three rule variants.
package irv

import (
	"sort"

	"irvaudit-core/election"
	"irvaudit-core/tree"
)

// Run performs a full IRV count for the election under the given rules. It
// never mutates the election: per-round totals come from the read-only
// continuing-choice aggregation on the profile tree.
//
// The returned warnings carry SFRCV tie diagnostics; the run itself is
// deterministic and never aborts on a tie. An *InvariantViolation is
// returned only when no candidate can win, which valid input cannot reach.
func Run(e *election.Election, rules Rules) (Result, []Warning, error) {
	continuing := make(map[int]bool, len(e.Candidates))
	for _, c := range e.Candidates {
		continuing[c.ID] = true
	}
	total := e.Profile.Total()

	var res Result
	var warns []Warning
	for round := 1; ; round++ {
		if len(continuing) == 0 {
			return Result{}, warns, &InvariantViolation{Round: round, Reason: "no continuing candidates"}
		}

		counts, _ := e.Profile.FirstChoiceCounts(continuing)
		votes := make(map[int]int, len(continuing))
		numVotes := 0
		for c := range continuing {
			votes[c] = counts[c]
			numVotes += counts[c]
		}
		res.Rounds = append(res.Rounds, Tally{Round: round, Votes: votes, Exhausted: total - numVotes})

		if win, ok := winnerOf(votes, numVotes, len(continuing), rules); ok {
			if win == 0 {
				return Result{}, warns, &InvariantViolation{Round: round, Reason: "every ballot exhausted"}
			}
			res.Winner = win
			if final := othersSorted(continuing, win); len(final) > 0 {
				res.Eliminations = append(res.Eliminations, final)
			}
			return res, warns, nil
		}

		elim, tied := EliminationSet(votes, rules)
		if tied != nil {
			warns = append(warns, Warning{Round: round, Tied: tied, Eliminated: elim[0]})
		}
		for _, c := range elim {
			delete(continuing, c)
		}
		res.Eliminations = append(res.Eliminations, elim)
	}
}

// winnerOf applies the termination rule to one round's totals. The second
// return is true when the run ends this round; a winner of 0 then signals an
// invariant violation (no votes left to award).
func winnerOf(votes map[int]int, numVotes, numContinuing int, rules Rules) (int, bool) {
	if rules == CompleteIRV {
		if numContinuing > 2 {
			return 0, false
		}
		return leader(votes), true
	}
	high := leader(votes)
	if high != 0 && 2*votes[high] > numVotes {
		return high, true
	}
	if numContinuing == 1 {
		// Sole continuing candidate without a single continuing ballot.
		return 0, true
	}
	return 0, false
}

// leader returns the candidate with the greatest total, ties broken by
// lowest id, or 0 for an empty map.
func leader(votes map[int]int) int {
	ids := make([]int, 0, len(votes))
	for c := range votes {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	high, highVotes := 0, -1
	for _, c := range ids {
		if votes[c] > highVotes {
			high, highVotes = c, votes[c]
		}
	}
	return high
}

func othersSorted(continuing map[int]bool, winner int) []int {
	var out []int
	for c := range continuing {
		if c != winner {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

// RunTree is the destructive counterpart of Run used by the margin bounds:
// it advances the given tree by at most maxRounds elimination rounds,
// merging eliminated candidates' ballots down to their next preferences.
// The tree's root children are the continuing candidates throughout.
//
// A winner of 0 means the round budget ran out (or no votes remained)
// before the termination rule fired. On full budgets RunTree agrees with
// Run round for round.
func RunTree(t *tree.Tree, maxRounds int, rules Rules) (winner int, rounds []Tally, elims [][]int, warns []Warning) {
	total := t.Total()
	for round := 1; round <= maxRounds; round++ {
		votes := make(map[int]int, t.NumChildren(t.Root()))
		numVotes := 0
		for _, c := range t.Children(t.Root()) {
			n, _ := t.Child(t.Root(), c)
			votes[c] = t.Weight(n)
			numVotes += t.Weight(n)
		}
		rounds = append(rounds, Tally{Round: round, Votes: votes, Exhausted: total - numVotes})

		if win, ok := winnerOf(votes, numVotes, len(votes), rules); ok {
			if win == 0 {
				return 0, rounds, elims, warns
			}
			winner = win
			var final []int
			for _, c := range t.Children(t.Root()) {
				if c != win {
					final = append(final, c)
				}
			}
			if len(final) > 0 {
				elims = append(elims, final)
			}
			return winner, rounds, elims, warns
		}

		elim, tied := EliminationSet(votes, rules)
		if tied != nil {
			warns = append(warns, Warning{Round: round, Tied: tied, Eliminated: elim[0]})
		}
		for _, c := range elim {
			t.Eliminate(c)
		}
		elims = append(elims, elim)
	}
	return 0, rounds, elims, warns
}
