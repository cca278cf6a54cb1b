package irv

import "fmt"

// Tally records one elimination round: each continuing candidate's vote
// weight and the weight of ballots with no continuing candidate left.
type Tally struct {
	Round     int
	Votes     map[int]int
	Exhausted int
}

// Result is the outcome of a full IRV run. Eliminations holds one ascending
// candidate-id set per round; only SFRCV produces sets larger than one before
// the final round, which records every remaining non-winner.
type Result struct {
	Winner       int
	Rounds       []Tally
	Eliminations [][]int
}

// Warning is the structured diagnostic emitted when the SFRCV batch rule
// cannot eliminate a whole tied group and falls back to removing the tied
// candidate with the lowest id. It is returned alongside the Result so
// callers can log or ignore it.
type Warning struct {
	Round      int
	Tied       []int
	Eliminated int
}

func (w Warning) String() string {
	return fmt.Sprintf("round %d: tie among %v cannot be eliminated as a batch; removing candidate %d",
		w.Round, w.Tied, w.Eliminated)
}

// InvariantViolation reports an engine state that the rules make unreachable
// for valid input, such as running out of candidates without a winner.
type InvariantViolation struct {
	Round  int
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("irv invariant violated in round %d: %s", e.Round, e.Reason)
}
