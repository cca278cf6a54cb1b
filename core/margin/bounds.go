// Package margin bounds the number of ballot modifications needed to change
// an IRV winner. Modifications are counted the way the exact formulation
// counts them: removing a ballot and adding its replacement are two changes,
// so one altered ballot contributes two.
package margin

import (
	"container/heap"
	"math"

	"irvaudit-core/election"
	"irvaudit-core/irv"
	"irvaudit-core/tree"
)

// rootVotes reads each continuing candidate's total off a reduced tree.
func rootVotes(t *tree.Tree) map[int]int {
	votes := make(map[int]int, t.NumChildren(t.Root()))
	for _, c := range t.Children(t.Root()) {
		n, _ := t.Child(t.Root(), c)
		votes[c] = t.Weight(n)
	}
	return votes
}

// roundMargin is the slack of one elimination decision: the smallest
// continuing total outside the set minus the set's combined total.
func roundMargin(votes map[int]int, elim []int) int {
	inSet := make(map[int]bool, len(elim))
	sum := 0
	for _, c := range elim {
		inSet[c] = true
		sum += votes[c]
	}
	minOut := math.MaxInt
	for c, v := range votes {
		if !inSet[c] && v < minOut {
			minOut = v
		}
	}
	if minOut == math.MaxInt {
		return 0
	}
	return minOut - sum
}

// SimpleLower computes the cheap lower bound: the minimum round slack along
// the SFRCV elimination sequence actually taken. It is independent of the
// rule variant the election was decided under.
func SimpleLower(e *election.Election) int {
	t := e.Profile.Clone()
	lb := math.MaxInt
	for {
		votes := rootVotes(t)
		if len(votes) < 2 {
			break
		}
		elim, _ := irv.EliminationSet(votes, irv.SFRCV)
		if m := roundMargin(votes, elim); m < lb {
			lb = m
		}
		winner, _, _, _ := irv.RunTree(t, 1, irv.SFRCV)
		if winner != 0 {
			break
		}
	}
	if lb == math.MaxInt {
		return 0
	}
	return lb
}

type lbState struct {
	m     int
	seq   int
	elims [][]int
	t     *tree.Tree
}

// lbHeap pops the state with the greatest running margin first; equal
// margins pop in insertion order so the search is reproducible.
type lbHeap []*lbState

func (h lbHeap) Len() int { return len(h) }
func (h lbHeap) Less(i, j int) bool {
	if h[i].m != h[j].m {
		return h[i].m > h[j].m
	}
	return h[i].seq < h[j].seq
}
func (h lbHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *lbHeap) Push(x any)        { *h = append(*h, x.(*lbState)) }
func (h *lbHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return s
}

// Lower computes the tight lower bound: a best-first search over every valid
// SFRCV elimination-set sequence, maximizing the minimum round slack along
// the way. The sequence achieving the bound is returned with it.
func Lower(e *election.Election) (int, [][]int) {
	h := &lbHeap{{m: math.MaxInt, t: e.Profile.Clone()}}
	seq := 1
	for h.Len() > 0 {
		s := heap.Pop(h).(*lbState)
		if s.t.NumChildren(s.t.Root()) <= 1 {
			if s.m == math.MaxInt {
				return 0, s.elims
			}
			return s.m, s.elims
		}
		votes := rootVotes(s.t)
		sets := irv.EliminationSets(votes)
		if len(sets) == 0 {
			// Tied bottom group with no valid batch: follow the same
			// deterministic fallback the engine uses, so the search can
			// always finish.
			elim, _ := irv.EliminationSet(votes, irv.SFRCV)
			if len(elim) == 0 {
				continue
			}
			sets = [][]int{elim}
		}
		for _, es := range sets {
			m2 := roundMargin(votes, es)
			nt := s.t.Clone()
			for _, c := range es {
				nt.Eliminate(c)
			}
			elims := make([][]int, len(s.elims), len(s.elims)+1)
			copy(elims, s.elims)
			heap.Push(h, &lbState{m: min(s.m, m2), seq: seq, elims: append(elims, es), t: nt})
			seq++
		}
	}
	return 0, nil
}
