package main

import (
	"fmt"
)

// segmentSamples is the number of interior interpolation points checked
// along a segment. The check is resolution-limited: obstacles narrower
// than one sampling interval can be missed.
const segmentSamples = 10

// Cell is a discrete grid cell identified by row and column
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Workspace is the planning domain: a square canvas divided into a
// gridSize x gridSize grid of cells, some of which are obstacles.
// All queries are pure functions; the planner never mutates a
// workspace while running.
type Workspace struct {
	GridSize   int     `json:"gridSize"`
	CanvasSize float64 `json:"canvasSize"`
	CellSize   float64 `json:"cellSize"`

	obstacles map[Cell]struct{}
}

// NewWorkspace creates a workspace with the given grid resolution and
// canvas extent, with the listed cells marked as obstacles
func NewWorkspace(gridSize int, canvasSize float64, obstacles []Cell) (*Workspace, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %d", gridSize)
	}
	if canvasSize <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %f", canvasSize)
	}

	ws := &Workspace{
		GridSize:   gridSize,
		CanvasSize: canvasSize,
		CellSize:   canvasSize / float64(gridSize),
		obstacles:  make(map[Cell]struct{}, len(obstacles)),
	}
	for _, c := range obstacles {
		if c.Row < 0 || c.Row >= gridSize || c.Col < 0 || c.Col >= gridSize {
			return nil, fmt.Errorf("obstacle cell (%d,%d) outside %dx%d grid", c.Row, c.Col, gridSize, gridSize)
		}
		ws.obstacles[c] = struct{}{}
	}
	return ws, nil
}

// Clone returns a deep copy sharing no state with the original, so a
// planning run keeps a stable view of the grid while the editor keeps
// toggling the live workspace.
func (ws *Workspace) Clone() *Workspace {
	obstacles := make(map[Cell]struct{}, len(ws.obstacles))
	for c := range ws.obstacles {
		obstacles[c] = struct{}{}
	}
	return &Workspace{
		GridSize:   ws.GridSize,
		CanvasSize: ws.CanvasSize,
		CellSize:   ws.CellSize,
		obstacles:  obstacles,
	}
}

// CellAt maps a continuous point to the discrete cell containing it
func (ws *Workspace) CellAt(p Point) Cell {
	return Cell{
		Row: int(p.Y / ws.CellSize),
		Col: int(p.X / ws.CellSize),
	}
}

// CellCenter returns the continuous center point of a cell
func (ws *Workspace) CellCenter(c Cell) Point {
	return Point{
		X: float64(c.Col)*ws.CellSize + ws.CellSize/2,
		Y: float64(c.Row)*ws.CellSize + ws.CellSize/2,
	}
}

// InDomain reports whether the point maps to a cell inside the grid
func (ws *Workspace) InDomain(p Point) bool {
	c := ws.CellAt(p)
	return p.X >= 0 && p.Y >= 0 &&
		c.Row >= 0 && c.Row < ws.GridSize &&
		c.Col >= 0 && c.Col < ws.GridSize
}

// IsFree reports whether the point lies in free space. Points outside
// the domain count as blocked.
func (ws *Workspace) IsFree(p Point) bool {
	if !ws.InDomain(p) {
		return false
	}
	_, blocked := ws.obstacles[ws.CellAt(p)]
	return !blocked
}

// SegmentFree reports whether the straight segment a->b stays in free
// space. The start point a is assumed already validated; the samples
// run from just past a up to and including b.
func (ws *Workspace) SegmentFree(a, b Point) bool {
	for i := 1; i <= segmentSamples; i++ {
		pt := a.Lerp(b, float64(i)/float64(segmentSamples))
		if !ws.InDomain(pt) || !ws.IsFree(pt) {
			return false
		}
	}
	return true
}

// ClampToBounds pulls a point back inside the canvas. The upper edge
// is exclusive (a point exactly on it maps to a cell past the grid),
// so clamp one unit short of it, matching the canvas pixel range.
func (ws *Workspace) ClampToBounds(p Point) Point {
	return p.Clamp(ws.CanvasSize-1, ws.CanvasSize-1)
}

// IsObstacle reports whether the cell is currently occupied
func (ws *Workspace) IsObstacle(c Cell) bool {
	_, ok := ws.obstacles[c]
	return ok
}

// toggleObstacle flips the occupancy of a cell and returns the new
// state. Only the editor calls this; a workspace handed to a running
// planner must not be edited.
func (ws *Workspace) toggleObstacle(c Cell) bool {
	if _, ok := ws.obstacles[c]; ok {
		delete(ws.obstacles, c)
		return false
	}
	ws.obstacles[c] = struct{}{}
	return true
}

// ObstacleCount returns the number of occupied cells
func (ws *Workspace) ObstacleCount() int {
	return len(ws.obstacles)
}

// ObstacleCells returns the occupied cells in row-major order
func (ws *Workspace) ObstacleCells() []Cell {
	cells := make([]Cell, 0, len(ws.obstacles))
	for r := 0; r < ws.GridSize; r++ {
		for c := 0; c < ws.GridSize; c++ {
			cell := Cell{Row: r, Col: c}
			if _, ok := ws.obstacles[cell]; ok {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
