package margin

import (
	"math"

	"irvaudit-core/election"
	"irvaudit-core/irv"
	"irvaudit-core/tree"
)

// unflippable marks a loser whose deficit cannot be closed by shifting
// ballots (degenerate profiles only). It never survives the min in Upper.
const unflippable = math.MaxInt / 4

// Upper computes the constructive upper bound: for each losing candidate,
// shift just enough ballots to overturn one elimination decision, rerun the
// count, and repeat until the winner changes. The cheapest construction over
// all losers, at two changes per shifted ballot, bounds the margin from
// above because it exhibits an actual outcome-flipping modification under
// the same rules.
func Upper(e *election.Election, rules irv.Rules, res irv.Result) int {
	best := math.MaxInt
	for _, j := range e.CandidateIDs() {
		if j == res.Winner {
			continue
		}
		if c := flipCost(e, rules, res, j); c < best {
			best = c
		}
	}
	if best >= unflippable {
		return math.MaxInt
	}
	return 2 * best
}

// flipCost counts the ballots shifted to make j survive long enough that the
// winner changes (not necessarily to j).
func flipCost(e *election.Election, rules irv.Rules, res irv.Result, j int) int {
	t := e.Profile.Clone()
	w := res.Winner
	mod := res.Eliminations
	cost := 0

	for w == res.Winner {
		// Locate the round that eliminates j and advance the tree to it.
		l := 0
		for l < len(mod) && !containsInt(mod[l], j) {
			l++
		}
		if l == len(mod) {
			return unflippable
		}
		if l > 0 {
			irv.RunTree(t, l, rules)
			mod = mod[l:]
		}

		// For j to survive this round, j needs more votes than the rest of
		// its elimination set, and the set's combined total must reach the
		// nearest continuing rival k.
		votesJ := rootChildWeight(t, j)
		inSet := make(map[int]bool, len(mod[0]))
		s := 0
		for _, c := range mod[0] {
			inSet[c] = true
			s += rootChildWeight(t, c)
		}
		k, diff := 0, math.MaxInt
		for _, c := range t.Children(t.Root()) {
			if inSet[c] {
				continue
			}
			if d := rootChildWeight(t, c) - votesJ; d < diff {
				k, diff = c, d
			}
		}
		if k == 0 {
			return unflippable
		}
		m := rootChildWeight(t, k) - s
		if s > votesJ {
			m--
		}
		if m < 0 {
			m = 0
		}

		changed := shiftVotes(t, m, j, k, mod, w)
		if changed == 0 {
			return unflippable
		}
		cost += changed

		w, _, mod, _ = irv.RunTree(t.Clone(), t.NumChildren(t.Root())+1, rules)
		if w == 0 {
			return unflippable
		}
	}
	return cost
}

// shiftVotes moves more than m vote-margin from k's first-choice ballots to
// j, preferring ballots whose next preferences are eliminated latest so the
// shift disturbs as little of the count as possible. Returns the number of
// ballots moved.
func shiftVotes(t *tree.Tree, m, j, k int, elimOrder [][]int, w int) int {
	var order []int
	for _, es := range elimOrder[1:] {
		order = append(order, es...)
	}
	order = append(order, w)
	for _, c := range elimOrder[0] {
		if c != j {
			order = append(order, c)
		}
	}
	order = append(order, j)
	filtered := order[:0]
	for _, c := range order {
		if c != k {
			filtered = append(filtered, c)
		}
	}

	kn, ok := t.Child(t.Root(), k)
	if !ok {
		return 0
	}
	changed, _ := steal(t, kn, m, j, filtered)
	return changed
}

// steal walks k's subtree in preference order, converting ballots into
// first-choice ballots for j until the margin m is overcome (each moved
// ballot closes the gap by two).
func steal(t *tree.Tree, n tree.Node, m, j int, order []int) (int, int) {
	changed := 0
	for _, c := range order {
		ci, ok := t.Child(n, c)
		if !ok {
			continue
		}
		sub, m2 := steal(t, ci, m, j, order)
		m = m2
		changed += sub
		t.AddWeight(n, -sub)
		if t.Weight(ci) == 0 {
			t.RemoveChild(n, c)
		}
		if m < 0 {
			return changed, m
		}
	}
	if avail := t.Weight(n); avail > 0 {
		x := avail
		if lim := m/2 + 1; lim < x {
			x = lim
		}
		t.AddWeight(n, -x)
		t.AddWeight(t.EnsureChild(t.Root(), j), x)
		m -= 2 * x
		changed += x
	}
	return changed, m
}

func rootChildWeight(t *tree.Tree, c int) int {
	n, ok := t.Child(t.Root(), c)
	if !ok {
		return 0
	}
	return t.Weight(n)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
