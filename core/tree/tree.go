// Package tree stores cleaned ranked ballots in a compact prefix tree.
//
// Nodes live in a flat arena and are addressed by index, so a Tree can be
// traversed concurrently for read-only aggregation and cloned cheaply for the
// destructive reductions the margin bounds perform.
package tree

import "sort"

// Node addresses a node inside a Tree's arena.
type Node int32

type node struct {
	weight   int
	children map[int]Node // next candidate id -> child node
}

// Tree is a rooted prefix tree of cleaned ballots. Each node's weight is the
// total weight of ballots whose cleaned order passes through it; the weight
// not accounted for by children belongs to ballots truncating at the node.
type Tree struct {
	nodes []node
}

// New returns an empty tree containing only the root.
func New() *Tree {
	return &Tree{nodes: []node{{}}}
}

// Root returns the root node.
func (t *Tree) Root() Node { return 0 }

// Total returns the total ballot weight inserted into the tree.
func (t *Tree) Total() int { return t.nodes[0].weight }

// Weight returns the cumulative weight at n.
func (t *Tree) Weight(n Node) int { return t.nodes[n].weight }

// SetWeight overwrites the cumulative weight at n.
func (t *Tree) SetWeight(n Node, w int) { t.nodes[n].weight = w }

// AddWeight adjusts the cumulative weight at n by delta.
func (t *Tree) AddWeight(n Node, delta int) { t.nodes[n].weight += delta }

// Child returns the child of n for candidate c.
func (t *Tree) Child(n Node, c int) (Node, bool) {
	ci, ok := t.nodes[n].children[c]
	return ci, ok
}

// EnsureChild returns the child of n for candidate c, creating it if needed.
func (t *Tree) EnsureChild(n Node, c int) Node {
	if ci, ok := t.nodes[n].children[c]; ok {
		return ci
	}
	t.nodes = append(t.nodes, node{})
	ci := Node(len(t.nodes) - 1)
	if t.nodes[n].children == nil {
		t.nodes[n].children = make(map[int]Node)
	}
	t.nodes[n].children[c] = ci
	return ci
}

// RemoveChild detaches the child of n for candidate c, if present.
func (t *Tree) RemoveChild(n Node, c int) { delete(t.nodes[n].children, c) }

// NumChildren returns the number of children of n.
func (t *Tree) NumChildren(n Node) int { return len(t.nodes[n].children) }

// Children returns the candidate ids of n's children in ascending order.
func (t *Tree) Children(n Node) []int {
	m := t.nodes[n].children
	if len(m) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m))
	for c := range m {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	return ids
}

// Insert adds a cleaned ballot with the given weight, creating nodes on
// demand and incrementing every visited node's weight.
func (t *Tree) Insert(prefs []int, weight int) {
	n := t.Root()
	t.nodes[n].weight += weight
	for _, c := range prefs {
		n = t.EnsureChild(n, c)
		t.nodes[n].weight += weight
	}
}

// Clone returns a deep copy sharing nothing with t.
func (t *Tree) Clone() *Tree {
	nodes := make([]node, len(t.nodes))
	for i, nd := range t.nodes {
		cp := node{weight: nd.weight}
		if nd.children != nil {
			cp.children = make(map[int]Node, len(nd.children))
			for c, ci := range nd.children {
				cp.children[c] = ci
			}
		}
		nodes[i] = cp
	}
	return &Tree{nodes: nodes}
}

// Eliminate removes candidate c from every ballot in the tree, transferring
// each affected ballot's weight to its next preference. This mutates the
// tree; engines operate on clones.
func (t *Tree) Eliminate(c int) { t.eliminate(t.Root(), c) }

func (t *Tree) eliminate(n Node, c int) {
	if ci, ok := t.nodes[n].children[c]; ok {
		delete(t.nodes[n].children, c)
		for _, gc := range t.Children(ci) {
			t.mergeChild(n, gc, t.nodes[ci].children[gc])
		}
	}
	for _, id := range t.Children(n) {
		t.eliminate(t.nodes[n].children[id], c)
	}
}

// mergeChild folds src (a subtree rooted at candidate c) into dst's child for
// c, adding weights and merging grandchildren recursively.
func (t *Tree) mergeChild(dst Node, c int, src Node) {
	if _, ok := t.nodes[dst].children[c]; !ok {
		if t.nodes[dst].children == nil {
			t.nodes[dst].children = make(map[int]Node)
		}
		t.nodes[dst].children[c] = src
		return
	}
	d := t.nodes[dst].children[c]
	t.nodes[d].weight += t.nodes[src].weight
	if len(t.nodes[d].children) == 0 {
		t.nodes[d].children = t.nodes[src].children
		return
	}
	for _, gc := range t.Children(src) {
		t.mergeChild(d, gc, t.nodes[src].children[gc])
	}
}

// FirstChoiceCounts computes, for the given continuing-candidate set, the
// total weight of ballots whose first continuing choice is each candidate,
// plus the weight of exhausted ballots. The traversal descends only into
// eliminated subtrees, so its cost is bounded by tree size.
func (t *Tree) FirstChoiceCounts(continuing map[int]bool) (map[int]int, int) {
	counts := make(map[int]int, len(continuing))
	exhausted := 0
	var walk func(n Node)
	walk = func(n Node) {
		childSum := 0
		for c, ci := range t.nodes[n].children {
			childSum += t.nodes[ci].weight
			if continuing[c] {
				counts[c] += t.nodes[ci].weight
			} else {
				walk(ci)
			}
		}
		exhausted += t.nodes[n].weight - childSum
	}
	walk(t.Root())
	return counts, exhausted
}

// Line is one flattened (cleaned ballot, weight) entry.
type Line struct {
	Prefs  []int
	Weight int
}

// Flatten reverses Insert: it returns every distinct cleaned ballot stored in
// the tree together with its weight, in depth-first candidate-id order.
// Ballots with no effective preference appear as an entry with empty Prefs.
func (t *Tree) Flatten() []Line {
	var out []Line
	var path []int
	var walk func(n Node)
	walk = func(n Node) {
		childSum := 0
		for _, c := range t.Children(n) {
			ci := t.nodes[n].children[c]
			childSum += t.nodes[ci].weight
			path = append(path, c)
			walk(ci)
			path = path[:len(path)-1]
		}
		if enders := t.nodes[n].weight - childSum; enders > 0 {
			out = append(out, Line{Prefs: append([]int(nil), path...), Weight: enders})
		}
	}
	walk(t.Root())
	return out
}
