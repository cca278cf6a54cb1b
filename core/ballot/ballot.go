// Package ballot models raw ranked ballots and the cleaning rules that turn
// them into strict preference orders.
package ballot

// Rank is a single preference position on a raw ballot. A rank may name one
// candidate, several tied candidates (an overvote), an overvote whose members
// were not recorded (Unknown), or nobody at all (an undervote).
type Rank struct {
	Candidates []int
	Unknown    bool // unknown overvote marker ("-=-")
}

// Undervote reports whether the rank was left blank.
func (r Rank) Undervote() bool { return !r.Unknown && len(r.Candidates) == 0 }

// Overvote reports whether the rank names more than one candidate, or is an
// unknown overvote.
func (r Rank) Overvote() bool { return r.Unknown || len(r.Candidates) > 1 }

// Single returns the rank's candidate id when the rank names exactly one.
func (r Rank) Single() (int, bool) {
	if !r.Unknown && len(r.Candidates) == 1 {
		return r.Candidates[0], true
	}
	return 0, false
}

// Ballot is one cast ballot: an ordered sequence of ranks and an integer
// weight. Current data always carries weight 1 but the model supports more.
type Ballot struct {
	Weight int
	Ranks  []Rank
}

// Clean converts the ballot into its effective preference order: undervotes
// are skipped, and scanning stops at the first overvote or at the first
// repetition of an already-seen candidate. The result is duplicate-free and
// may be empty.
func (b Ballot) Clean() []int {
	var prefs []int
	seen := make(map[int]bool, len(b.Ranks))
	for _, r := range b.Ranks {
		if r.Undervote() {
			continue
		}
		c, ok := r.Single()
		if !ok || seen[c] {
			break
		}
		seen[c] = true
		prefs = append(prefs, c)
	}
	return prefs
}
