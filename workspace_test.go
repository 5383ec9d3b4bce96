package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustWorkspace(t *testing.T, gridSize int, canvasSize float64, obstacles []Cell) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(gridSize, canvasSize, obstacles)
	require.NoError(t, err)
	return ws
}

func TestNewWorkspaceValidation(t *testing.T) {
	_, err := NewWorkspace(0, 500, nil)
	require.Error(t, err)

	_, err = NewWorkspace(5, 0, nil)
	require.Error(t, err)

	_, err = NewWorkspace(5, 500, []Cell{{Row: 5, Col: 0}})
	require.Error(t, err)

	ws, err := NewWorkspace(5, 500, []Cell{{Row: 2, Col: 3}})
	require.NoError(t, err)
	require.Equal(t, 100.0, ws.CellSize)
	require.Equal(t, 1, ws.ObstacleCount())
}

func TestInDomain(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{250, 250}, true},
		{"origin", Point{0, 0}, true},
		{"last pixel", Point{499, 499}, true},
		{"right edge exclusive", Point{500, 250}, false},
		{"bottom edge exclusive", Point{250, 500}, false},
		{"negative x", Point{-1, 250}, false},
		{"negative y", Point{250, -0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ws.InDomain(tt.p))
		})
	}
}

func TestIsFree(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, []Cell{{Row: 1, Col: 2}})

	// cell (1,2) spans x in [200,300), y in [100,200)
	require.False(t, ws.IsFree(Point{250, 150}))
	require.True(t, ws.IsFree(Point{250, 250}))

	// out of domain counts as blocked
	require.False(t, ws.IsFree(Point{-10, 50}))
	require.False(t, ws.IsFree(Point{600, 50}))
}

func TestCellAtCenterRoundTrip(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell := Cell{Row: r, Col: c}
			require.Equal(t, cell, ws.CellAt(ws.CellCenter(cell)))
		}
	}
}

func TestSegmentFreeBlockedByWall(t *testing.T) {
	// wall across row 2
	wall := make([]Cell, 5)
	for c := 0; c < 5; c++ {
		wall[c] = Cell{Row: 2, Col: c}
	}
	ws := mustWorkspace(t, 5, 500, wall)

	require.False(t, ws.SegmentFree(Point{50, 50}, Point{50, 450}))
	require.True(t, ws.SegmentFree(Point{50, 50}, Point{450, 50}))
}

func TestSegmentFreeLeavingDomain(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	require.False(t, ws.SegmentFree(Point{450, 450}, Point{550, 550}))
}

func TestSegmentFreeSymmetric(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, []Cell{{Row: 2, Col: 2}, {Row: 0, Col: 3}, {Row: 4, Col: 1}})

	pairs := [][2]Point{
		{{50, 50}, {450, 450}},
		{{50, 450}, {450, 50}},
		{{150, 50}, {150, 450}},
		{{50, 250}, {450, 250}},
		{{75, 125}, {430, 390}},
	}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		require.Equal(t, ws.SegmentFree(a, b), ws.SegmentFree(b, a),
			"segment (%v -> %v) free-ness should not depend on direction", a, b)
	}
}

func TestToggleObstacle(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	c := Cell{Row: 3, Col: 3}

	require.True(t, ws.toggleObstacle(c))
	require.True(t, ws.IsObstacle(c))
	require.False(t, ws.toggleObstacle(c))
	require.False(t, ws.IsObstacle(c))
}

func TestCloneIsIndependent(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, []Cell{{1, 1}})
	snapshot := ws.Clone()

	ws.toggleObstacle(Cell{3, 3})
	ws.toggleObstacle(Cell{1, 1})

	require.True(t, snapshot.IsObstacle(Cell{1, 1}))
	require.False(t, snapshot.IsObstacle(Cell{3, 3}))
	require.Equal(t, 1, snapshot.ObstacleCount())
	require.Equal(t, ws.CellSize, snapshot.CellSize)
}

func TestObstacleCellsOrdered(t *testing.T) {
	ws := mustWorkspace(t, 3, 300, []Cell{{2, 1}, {0, 2}, {0, 0}})
	require.Equal(t, []Cell{{0, 0}, {0, 2}, {2, 1}}, ws.ObstacleCells())
}
