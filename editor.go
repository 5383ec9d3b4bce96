package main

import "fmt"

// editRecord is one obstacle toggle: the cell and the occupancy state
// the toggle produced
type editRecord struct {
	Cell    Cell `json:"cell"`
	Blocked bool `json:"blocked"`
}

// Editor applies obstacle toggles to a workspace with undo/redo
// history. A fresh toggle clears the redo stack. The editor only runs
// between planning runs; the workspace handed to a planner stays
// fixed.
type Editor struct {
	ws   *Workspace
	undo []editRecord
	redo []editRecord
}

// NewEditor creates an editor with empty history over the workspace
func NewEditor(ws *Workspace) *Editor {
	return &Editor{ws: ws}
}

// Toggle flips the occupancy of a cell and records it for undo.
// Returns the new occupancy state.
func (e *Editor) Toggle(c Cell) (bool, error) {
	if c.Row < 0 || c.Row >= e.ws.GridSize || c.Col < 0 || c.Col >= e.ws.GridSize {
		return false, fmt.Errorf("cell (%d,%d) outside %dx%d grid", c.Row, c.Col, e.ws.GridSize, e.ws.GridSize)
	}
	blocked := e.ws.toggleObstacle(c)
	e.undo = append(e.undo, editRecord{Cell: c, Blocked: blocked})
	e.redo = e.redo[:0]
	return blocked, nil
}

// Undo reverts the most recent toggle and moves it to the redo stack.
// Returns false when there is nothing to undo.
func (e *Editor) Undo() (Cell, bool) {
	if len(e.undo) == 0 {
		return Cell{}, false
	}
	rec := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	rec.Blocked = e.ws.toggleObstacle(rec.Cell)
	e.redo = append(e.redo, rec)
	return rec.Cell, true
}

// Redo re-applies the most recently undone toggle. Returns false when
// there is nothing to redo.
func (e *Editor) Redo() (Cell, bool) {
	if len(e.redo) == 0 {
		return Cell{}, false
	}
	rec := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	rec.Blocked = e.ws.toggleObstacle(rec.Cell)
	e.undo = append(e.undo, rec)
	return rec.Cell, true
}

// UndoDepth returns the number of toggles available to undo
func (e *Editor) UndoDepth() int { return len(e.undo) }

// RedoDepth returns the number of toggles available to redo
func (e *Editor) RedoDepth() int { return len(e.redo) }
