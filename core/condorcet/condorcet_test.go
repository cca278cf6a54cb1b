package condorcet

import (
	"fmt"
	"testing"

	"irvaudit-core/ballot"
	"irvaudit-core/election"
)

func mkElection(t *testing.T, n int, prefs ...[]int) *election.Election {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("C%d", i+1)
	}
	ballots := make([]ballot.Ballot, len(prefs))
	for i, p := range prefs {
		ranks := make([]ballot.Rank, len(p))
		for j, c := range p {
			ranks[j] = ballot.Rank{Candidates: []int{c}}
		}
		ballots[i] = ballot.Ballot{Weight: 1, Ranks: ranks}
	}
	e, err := election.New(names, 1, "test", ballots)
	if err != nil {
		t.Fatalf("election.New: %v", err)
	}
	return e
}

func TestBuildPairs(t *testing.T) {
	e := mkElection(t, 5,
		[]int{1, 2, 3},
		[]int{1, 4},
		[]int{4, 2, 1},
		[]int{5},
		nil,
	)
	m := Build(e, 1)
	checks := []struct{ i, j, want int }{
		{1, 2, 1}, {2, 1, 1},
		{1, 3, 1}, {3, 1, 0},
		{2, 3, 1}, {3, 2, 0},
		{1, 4, 1}, {4, 1, 1},
		{4, 2, 1}, {2, 4, 0},
		{1, 5, 0}, {5, 1, 0},
	}
	for _, c := range checks {
		if got := m.Beats(c.i, c.j); got != c.want {
			t.Errorf("Beats(%d,%d) = %d, want %d", c.i, c.j, got, c.want)
		}
	}
	if _, ok := m.Winner(); ok {
		t.Error("sample has a 1-1 split between 1 and 2; no Condorcet winner expected")
	}
	if _, ok := m.LowerBound(); ok {
		t.Error("LowerBound should be unavailable without a Condorcet winner")
	}
}

func TestWinnerAndLowerBound(t *testing.T) {
	e := mkElection(t, 2,
		[]int{1, 2}, []int{1, 2}, []int{1, 2},
		[]int{2, 1},
	)
	m := Build(e, 1)
	w, ok := m.Winner()
	if !ok || w != 1 {
		t.Fatalf("Winner = %d, %v; want 1, true", w, ok)
	}
	lb, ok := m.LowerBound()
	if !ok || lb != 1 {
		t.Errorf("LowerBound = %d, %v; want 1, true", lb, ok)
	}
}

// A candidate never ranked alongside the leader blocks a pairwise win, since
// only ballots ranking both count toward the pair.
func TestUnrankedPairsBlockWinner(t *testing.T) {
	e := mkElection(t, 3,
		[]int{1, 2}, []int{1, 2}, []int{1, 2},
		[]int{3},
	)
	m := Build(e, 1)
	if got := m.Beats(1, 3); got != 0 {
		t.Errorf("Beats(1,3) = %d, want 0", got)
	}
	if _, ok := m.Winner(); ok {
		t.Error("1 never faces 3 on any ballot; no Condorcet winner expected")
	}
}

func TestSerialParallelAgree(t *testing.T) {
	e := mkElection(t, 5,
		[]int{1, 2, 3},
		[]int{1, 4},
		[]int{4, 2, 1},
		[]int{5, 1, 2},
		[]int{3, 4},
		[]int{2, 5, 1, 4},
	)
	want := Build(e, 1)
	for threads := 2; threads <= 8; threads *= 2 {
		got := Build(e, threads)
		for i := 1; i <= 5; i++ {
			for j := 1; j <= 5; j++ {
				if got.Beats(i, j) != want.Beats(i, j) {
					t.Fatalf("threads=%d: Beats(%d,%d) = %d, serial %d",
						threads, i, j, got.Beats(i, j), want.Beats(i, j))
				}
			}
		}
	}
}

// The matrix depends only on the ballot multiset, never on the order ballots
// were inserted into the profile tree.
func TestBuildInsertionOrderIrrelevant(t *testing.T) {
	prefs := [][]int{
		{1, 2, 3},
		{1, 4},
		{4, 2, 1},
		{5, 1, 2},
		{3, 4},
		{2, 5, 1, 4},
	}
	reversed := make([][]int, len(prefs))
	for i, p := range prefs {
		reversed[len(prefs)-1-i] = p
	}
	a := Build(mkElection(t, 5, prefs...), 1)
	b := Build(mkElection(t, 5, reversed...), 1)
	for i := 1; i <= 5; i++ {
		for j := 1; j <= 5; j++ {
			if a.Beats(i, j) != b.Beats(i, j) {
				t.Errorf("Beats(%d,%d) = %d forward, %d reversed",
					i, j, a.Beats(i, j), b.Beats(i, j))
			}
		}
	}
}

// No pair can accumulate more preferences than there are ballots: each ballot
// contributes to at most one direction of each pair.
func TestPairTotalsBoundedByBallots(t *testing.T) {
	e := mkElection(t, 5,
		[]int{1, 2, 3},
		[]int{1, 4},
		[]int{4, 2, 1},
		[]int{5, 1, 2},
		[]int{3, 4},
		[]int{2, 5, 1, 4},
	)
	total := e.Profile.Total()
	m := Build(e, 1)
	for i := 1; i <= 5; i++ {
		for j := i + 1; j <= 5; j++ {
			if sum := m.Beats(i, j) + m.Beats(j, i); sum > total {
				t.Errorf("Beats(%d,%d)+Beats(%d,%d) = %d exceeds %d ballots",
					i, j, j, i, sum, total)
			}
		}
	}
}
