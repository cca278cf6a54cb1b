package irv

import "sort"

type totalGroup struct {
	total int
	ids   []int
}

// groupByTotal sorts the candidates ascending by (total, id) and groups the
// ones sharing a total. Ties always travel together through the SFRCV rule.
// The flat sorted id list is returned alongside the groups.
func groupByTotal(counts map[int]int) ([]totalGroup, []int) {
	ids := make([]int, 0, len(counts))
	for c := range counts {
		ids = append(ids, c)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] < counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	var groups []totalGroup
	for _, c := range ids {
		if n := len(groups); n > 0 && groups[n-1].total == counts[c] {
			groups[n-1].ids = append(groups[n-1].ids, c)
		} else {
			groups = append(groups, totalGroup{total: counts[c], ids: []int{c}})
		}
	}
	return groups, ids
}

// EliminationSet returns the candidates to eliminate this round, given every
// continuing candidate's current total.
//
// Base and complete rules remove the single candidate with the fewest votes,
// ties broken by lowest id. SFRCV removes the largest ascending-total prefix
// whose combined total is smaller than every total outside it; when no such
// prefix exists the lowest candidate is removed alone and tied reports the
// total-tied group that forced the fallback.
func EliminationSet(counts map[int]int, rules Rules) (elim, tied []int) {
	groups, sorted := groupByTotal(counts)
	if len(groups) == 0 {
		return nil, nil
	}
	if rules != SFRCV {
		return sorted[:1], nil
	}

	sum, take, seen := 0, 0, 0
	for _, g := range groups {
		if sum < g.total {
			take = seen
		}
		sum += g.total * len(g.ids)
		seen += len(g.ids)
	}
	if take == 0 {
		// The trailing tied group cannot all go: its combined total is not
		// below the next candidate's. Remove one of them deterministically.
		return sorted[:1], append([]int(nil), groups[0].ids...)
	}
	return append([]int(nil), sorted[:take]...), nil
}

// EliminationSets returns every valid SFRCV elimination set for the given
// totals, smallest first. The lower-bound search branches over all of them.
func EliminationSets(counts map[int]int) [][]int {
	groups, sorted := groupByTotal(counts)
	var sets [][]int
	sum, seen := 0, 0
	for _, g := range groups {
		if sum < g.total && seen > 0 {
			sets = append(sets, append([]int(nil), sorted[:seen]...))
		}
		sum += g.total * len(g.ids)
		seen += len(g.ids)
	}
	return sets
}
