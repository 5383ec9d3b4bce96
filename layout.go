package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// workspaceFile is the on-disk JSON form of a workspace
type workspaceFile struct {
	GridSize   int     `json:"gridSize"`
	CanvasSize float64 `json:"canvasSize"`
	Obstacles  []Cell  `json:"obstacles"`
}

// SaveWorkspace serializes the workspace to a JSON file
func SaveWorkspace(ws *Workspace, filename string) error {
	log.Printf("💾 Saving workspace to %s...\n", filename)

	data, err := json.MarshalIndent(workspaceFile{
		GridSize:   ws.GridSize,
		CanvasSize: ws.CanvasSize,
		Obstacles:  ws.ObstacleCells(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Workspace saved (%d bytes)\n", len(data))
	return nil
}

// LoadWorkspace deserializes a workspace from a JSON file
func LoadWorkspace(filename string) (*Workspace, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var wf workspaceFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
	}

	ws, err := NewWorkspace(wf.GridSize, wf.CanvasSize, wf.Obstacles)
	if err != nil {
		return nil, err
	}

	log.Printf("📂 Loaded workspace from %s: %dx%d grid, %d obstacles\n",
		filename, ws.GridSize, ws.GridSize, ws.ObstacleCount())
	return ws, nil
}

// ObstaclesFromGeoJSON rasterizes the polygons of a GeoJSON feature
// collection onto the grid: a cell becomes an obstacle when its
// center lies inside any polygon. Coordinates are in canvas units.
func ObstaclesFromGeoJSON(data []byte, gridSize int, canvasSize float64) ([]Cell, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON layout: %w", err)
	}

	cellSize := canvasSize / float64(gridSize)
	var cells []Cell
	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize; c++ {
			center := orb.Point{
				float64(c)*cellSize + cellSize/2,
				float64(r)*cellSize + cellSize/2,
			}
			if anyFeatureContains(fc, center) {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}

	log.Printf("   Rasterized %d features onto %d obstacle cells\n", len(fc.Features), len(cells))
	return cells, nil
}

func anyFeatureContains(fc *geojson.FeatureCollection, pt orb.Point) bool {
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return true
			}
		}
	}
	return false
}
