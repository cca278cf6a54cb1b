// Package condorcet builds pairwise preference matrices from cleaned ballots
// and derives the Condorcet winner and margin lower bound.
package condorcet

import (
	"runtime"
	"sync"

	"irvaudit-core/election"
	"irvaudit-core/tree"
)

// Matrix is the N×N pairwise preference table: the weight of ballots ranking
// i somewhere before j, for every ordered pair where both were ranked.
// Candidates a ballot never ranked contribute nothing for that ballot, since
// truncation hides the voter's true preference.
type Matrix struct {
	n int
	w [][]int
}

// Size returns the number of candidates.
func (m *Matrix) Size() int { return m.n }

// Beats returns the ballot weight preferring candidate i over candidate j
// (1-based ids).
func (m *Matrix) Beats(i, j int) int { return m.w[i-1][j-1] }

// Build walks the ballot tree and accumulates every ranked pair. Subtrees
// under different first choices are independent, so they are distributed
// over threads workers (0 = all CPUs); the result is identical for any
// thread count because each pair's weight is a plain integer sum.
func Build(e *election.Election, threads int) *Matrix {
	n := len(e.Candidates)
	t := e.Profile
	if threads < 1 {
		threads = runtime.NumCPU()
	}

	firsts := t.Children(t.Root())
	jobs := make(chan int, len(firsts))
	for _, c := range firsts {
		jobs <- c
	}
	close(jobs)

	parts := make(chan [][]int, threads)
	var wg sync.WaitGroup
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			defer wg.Done()
			part := newTable(n)
			for c := range jobs {
				cn, _ := t.Child(t.Root(), c)
				accumulate(t, cn, []int{c}, part)
			}
			parts <- part
		}()
	}
	wg.Wait()
	close(parts)

	m := &Matrix{n: n, w: newTable(n)}
	for part := range parts {
		for i := range part {
			for j, v := range part[i] {
				m.w[i][j] += v
			}
		}
	}
	return m
}

func newTable(n int) [][]int {
	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
	}
	return w
}

// accumulate credits every ancestor over each descendant candidate with the
// weight of the ballots flowing through the descendant's node.
func accumulate(t *tree.Tree, n tree.Node, ranked []int, w [][]int) {
	for _, c := range t.Children(n) {
		cn, _ := t.Child(n, c)
		if wt := t.Weight(cn); wt > 0 {
			for _, a := range ranked {
				w[a-1][c-1] += wt
			}
		}
		accumulate(t, cn, append(ranked[:len(ranked):len(ranked)], c), w)
	}
}

// Winner returns the candidate beating every other candidate pairwise, or
// (0, false) when no such candidate exists. Absence of a Condorcet winner is
// a legitimate outcome, not an error.
func (m *Matrix) Winner() (int, bool) {
	for i := 1; i <= m.n; i++ {
		wins := true
		for j := 1; j <= m.n; j++ {
			if j != i && m.Beats(i, j) <= m.Beats(j, i) {
				wins = false
				break
			}
		}
		if wins {
			return i, true
		}
	}
	return 0, false
}

// LowerBound returns the fewest ballot changes that could plausibly erase
// the Condorcet winner's closest pairwise victory: the minimum over rivals
// of floor((wins − losses) / 2). It is unavailable, (0, false), when there
// is no Condorcet winner.
func (m *Matrix) LowerBound() (int, bool) {
	w, ok := m.Winner()
	if !ok {
		return 0, false
	}
	lb := -1
	for j := 1; j <= m.n; j++ {
		if j == w {
			continue
		}
		d := (m.Beats(w, j) - m.Beats(j, w)) / 2
		if lb < 0 || d < lb {
			lb = d
		}
	}
	if lb < 0 {
		lb = 0
	}
	return lb, true
}
