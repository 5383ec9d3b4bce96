package main

import "errors"

// ErrInvalidGoalIndex is returned when path extraction is asked for a
// node that does not exist
var ErrInvalidGoalIndex = errors.New("invalid goal node index")

// ExtractPath follows parent links from the goal node back to the
// root and returns the positions in root-to-goal order
func ExtractPath(tree *Tree, goalIndex int) ([]Point, error) {
	if tree == nil || goalIndex < 0 || goalIndex >= tree.Len() {
		return nil, ErrInvalidGoalIndex
	}

	var reversed []Point
	for cur := goalIndex; cur != rootSentinel; cur = tree.At(cur).Parent {
		reversed = append(reversed, tree.At(cur).Point)
	}

	path := make([]Point, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path, nil
}

// SmoothPath greedily shortcuts a path: from each anchor, jump to the
// farthest later point reachable by a collision-free straight
// segment. The first point is always kept, and consecutive points of
// the input are collision-free by construction, so the scan always
// advances. Re-smoothing a smoothed path returns it unchanged.
func SmoothPath(ws *Workspace, path []Point) []Point {
	if len(path) <= 2 {
		return append([]Point(nil), path...)
	}

	smoothed := []Point{path[0]}
	for i := 0; i < len(path)-1; {
		j := len(path) - 1
		for ; j > i+1; j-- {
			if ws.SegmentFree(path[i], path[j]) {
				break
			}
		}
		smoothed = append(smoothed, path[j])
		i = j
	}
	return smoothed
}
