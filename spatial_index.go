package main

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// pointMargin gives point entries a tiny non-zero extent, which
// rtreego requires of every rectangle.
const pointMargin = 1e-9

// nodeEntry wraps a tree node index for R-tree storage
type nodeEntry struct {
	Index int
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// nodeIndex manages spatial queries over tree node positions
type nodeIndex struct {
	tree *rtreego.Rtree
}

// newNodeIndex creates an empty 2D index
func newNodeIndex() *nodeIndex {
	return &nodeIndex{tree: rtreego.NewTree(2, 25, 50)}
}

// Insert adds a node position under the given arena index. The index
// must never fall out of sync with the arena, so an impossible rect
// failure panics instead of silently dropping the node.
func (ni *nodeIndex) Insert(index int, p Point) {
	bbox, err := rtreego.NewRect(
		rtreego.Point{p.X, p.Y},
		[]float64{pointMargin, pointMargin},
	)
	if err != nil {
		// lengths are a fixed positive constant; NewRect only fails
		// on non-positive lengths
		panic(err)
	}
	ni.tree.Insert(&nodeEntry{Index: index, BBox: bbox})
}

// Within returns the indices of all nodes within radius of p
// (inclusive), in ascending index order. positions resolves an index
// to its stored point for the exact distance check. A radius too
// negative to form a search box matches nothing.
func (ni *nodeIndex) Within(p Point, radius float64, positions func(int) Point) []int {
	bbox, err := rtreego.NewRect(
		rtreego.Point{p.X - radius, p.Y - radius},
		[]float64{2*radius + pointMargin, 2*radius + pointMargin},
	)
	if err != nil {
		return nil
	}

	results := ni.tree.SearchIntersect(bbox)
	indices := make([]int, 0, len(results))
	for _, item := range results {
		entry := item.(*nodeEntry)
		if positions(entry.Index).Distance(p) <= radius {
			indices = append(indices, entry.Index)
		}
	}
	sort.Ints(indices)
	return indices
}

// Nearest returns the index of the node closest to p, breaking
// distance ties by lowest index
func (ni *nodeIndex) Nearest(p Point, positions func(int) Point) int {
	item := ni.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if item == nil {
		return -1
	}
	best := item.(*nodeEntry).Index
	bestDist := positions(best).Distance(p)

	// the R-tree returns an arbitrary node among equidistant ones, so
	// re-query the tie radius and take the lowest index
	for _, idx := range ni.Within(p, bestDist+pointMargin, positions) {
		d := positions(idx).Distance(p)
		if d < bestDist || (d == bestDist && idx < best) {
			best = idx
			bestDist = d
		}
	}
	return best
}
