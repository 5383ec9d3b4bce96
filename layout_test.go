package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadWorkspaceRoundTrip(t *testing.T) {
	obstacles := []Cell{{0, 4}, {2, 2}, {4, 0}}
	ws := mustWorkspace(t, 5, 500, obstacles)

	filename := filepath.Join(t.TempDir(), "workspace.json")
	require.NoError(t, SaveWorkspace(ws, filename))

	loaded, err := LoadWorkspace(filename)
	require.NoError(t, err)
	require.Equal(t, ws.GridSize, loaded.GridSize)
	require.Equal(t, ws.CanvasSize, loaded.CanvasSize)
	require.Equal(t, ws.CellSize, loaded.CellSize)
	require.Equal(t, ws.ObstacleCells(), loaded.ObstacleCells())
}

func TestLoadWorkspaceMissingFile(t *testing.T) {
	_, err := LoadWorkspace(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestObstaclesFromGeoJSONPolygon(t *testing.T) {
	// rectangle covering the centers of cells (1,1) and (1,2)
	layout := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[100,100],[300,100],[300,200],[100,200],[100,100]]]
			}
		}]
	}`)

	cells, err := ObstaclesFromGeoJSON(layout, 5, 500)
	require.NoError(t, err)
	require.Equal(t, []Cell{{Row: 1, Col: 1}, {Row: 1, Col: 2}}, cells)
}

func TestObstaclesFromGeoJSONMultiPolygon(t *testing.T) {
	layout := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[0,0],[100,0],[100,100],[0,100],[0,0]]],
					[[[400,400],[500,400],[500,500],[400,500],[400,400]]]
				]
			}
		}]
	}`)

	cells, err := ObstaclesFromGeoJSON(layout, 5, 500)
	require.NoError(t, err)
	require.Equal(t, []Cell{{Row: 0, Col: 0}, {Row: 4, Col: 4}}, cells)
}

func TestObstaclesFromGeoJSONInvalid(t *testing.T) {
	_, err := ObstaclesFromGeoJSON([]byte(`{"not": "geojson"`), 5, 500)
	require.Error(t, err)
}
