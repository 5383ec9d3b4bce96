package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditorToggle(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	ed := NewEditor(ws)

	blocked, err := ed.Toggle(Cell{1, 1})
	require.NoError(t, err)
	require.True(t, blocked)
	require.True(t, ws.IsObstacle(Cell{1, 1}))

	blocked, err = ed.Toggle(Cell{1, 1})
	require.NoError(t, err)
	require.False(t, blocked)
	require.False(t, ws.IsObstacle(Cell{1, 1}))
}

func TestEditorToggleOutOfRange(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	ed := NewEditor(ws)

	_, err := ed.Toggle(Cell{5, 0})
	require.Error(t, err)
	_, err = ed.Toggle(Cell{0, -1})
	require.Error(t, err)
	require.Equal(t, 0, ed.UndoDepth())
}

func TestEditorUndoRedo(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	ed := NewEditor(ws)

	ed.Toggle(Cell{1, 1})
	ed.Toggle(Cell{2, 2})
	require.Equal(t, 2, ed.UndoDepth())

	cell, ok := ed.Undo()
	require.True(t, ok)
	require.Equal(t, Cell{2, 2}, cell)
	require.False(t, ws.IsObstacle(Cell{2, 2}))
	require.True(t, ws.IsObstacle(Cell{1, 1}))
	require.Equal(t, 1, ed.RedoDepth())

	cell, ok = ed.Redo()
	require.True(t, ok)
	require.Equal(t, Cell{2, 2}, cell)
	require.True(t, ws.IsObstacle(Cell{2, 2}))
	require.Equal(t, 0, ed.RedoDepth())
}

func TestEditorUndoRestoresRemovedObstacle(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, []Cell{{3, 3}})
	ed := NewEditor(ws)

	// toggle removes the pre-existing obstacle; undo puts it back
	blocked, err := ed.Toggle(Cell{3, 3})
	require.NoError(t, err)
	require.False(t, blocked)

	_, ok := ed.Undo()
	require.True(t, ok)
	require.True(t, ws.IsObstacle(Cell{3, 3}))
}

func TestEditorToggleClearsRedo(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	ed := NewEditor(ws)

	ed.Toggle(Cell{1, 1})
	ed.Undo()
	require.Equal(t, 1, ed.RedoDepth())

	ed.Toggle(Cell{4, 4})
	require.Equal(t, 0, ed.RedoDepth())

	_, ok := ed.Redo()
	require.False(t, ok)
}

func TestEditorEmptyHistory(t *testing.T) {
	ws := mustWorkspace(t, 5, 500, nil)
	ed := NewEditor(ws)

	_, ok := ed.Undo()
	require.False(t, ok)
	_, ok = ed.Redo()
	require.False(t, ok)
}
