package main

import (
	"errors"
	"fmt"
)

// rootSentinel marks the root node's parent index
const rootSentinel = -1

var (
	// ErrRewireRoot is returned when a rewire targets the root node
	ErrRewireRoot = errors.New("cannot rewire the root node")
)

// TreeNode is a vertex of the exploration tree. Parent is the arena
// index of the node it connects back to, or rootSentinel for the root.
// Cost is the accumulated path length from the root along tree edges.
type TreeNode struct {
	Point  Point   `json:"point"`
	Parent int     `json:"parent"`
	Cost   float64 `json:"cost"`
}

// Tree is an append-only arena of nodes. Index 0 is always the root.
// Nodes are never removed; rewiring overwrites parent and cost in
// place. A single planning run is the only writer; concurrent readers
// need external synchronization.
type Tree struct {
	nodes []TreeNode
	index *nodeIndex
}

// NewTree creates a tree containing only the root node at the start
// position, with cost zero
func NewTree(root Point) *Tree {
	t := &Tree{
		nodes: []TreeNode{{Point: root, Parent: rootSentinel, Cost: 0}},
		index: newNodeIndex(),
	}
	t.index.Insert(0, root)
	return t
}

// Len returns the number of nodes in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// At returns the node stored at the given index
func (t *Tree) At(index int) TreeNode {
	return t.nodes[index]
}

// Nodes returns a copy of the arena for inspection
func (t *Tree) Nodes() []TreeNode {
	out := make([]TreeNode, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Append adds a node and returns its index, which equals the tree
// size before the append
func (t *Tree) Append(p Point, parent int, cost float64) int {
	index := len(t.nodes)
	t.nodes = append(t.nodes, TreeNode{Point: p, Parent: parent, Cost: cost})
	t.index.Insert(index, p)
	return index
}

// Nearest returns the index of the node closest to p, with distance
// ties broken by lowest index
func (t *Tree) Nearest(p Point) int {
	return t.index.Nearest(p, t.position)
}

// NeighborsWithin returns all node indices within radius of p
// (inclusive), in ascending index order
func (t *Tree) NeighborsWithin(p Point, radius float64) []int {
	return t.index.Within(p, radius, t.position)
}

// RewireParent reassigns the parent and cost of an existing node and
// propagates the cost change through the node's descendants, whose
// edges are unchanged but whose cost-to-come shifts with it. The
// caller guarantees the new cost is a strict improvement and that the
// new parent is neither the node itself nor one of its descendants.
func (t *Tree) RewireParent(index, newParent int, newCost float64) error {
	if index <= 0 || index >= len(t.nodes) {
		if index == 0 {
			return ErrRewireRoot
		}
		return fmt.Errorf("rewire index %d out of range", index)
	}
	if newParent < 0 || newParent >= len(t.nodes) || newParent == index {
		return fmt.Errorf("invalid rewire parent %d for node %d", newParent, index)
	}
	t.nodes[index].Parent = newParent
	t.nodes[index].Cost = newCost
	t.propagateCost(index)
	return nil
}

// propagateCost recomputes the cost of every descendant of the given
// node. Children are only discoverable by scanning the arena, so
// build the child lists once and walk the subtree from there.
func (t *Tree) propagateCost(index int) {
	children := make(map[int][]int, len(t.nodes))
	for j := 1; j < len(t.nodes); j++ {
		children[t.nodes[j].Parent] = append(children[t.nodes[j].Parent], j)
	}

	queue := []int{index}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		parent := t.nodes[p]
		for _, j := range children[p] {
			t.nodes[j].Cost = parent.Cost + parent.Point.Distance(t.nodes[j].Point)
			queue = append(queue, j)
		}
	}
}

func (t *Tree) position(index int) Point {
	return t.nodes[index].Point
}
