package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const workspaceFilename = "workspace.json"

// WorkspaceRequest configures a new workspace. Obstacles may be given
// directly as cells, as a GeoJSON layout, or both.
type WorkspaceRequest struct {
	GridSize   int             `json:"gridSize"`
	CanvasSize float64         `json:"canvasSize"`
	Obstacles  []Cell          `json:"obstacles,omitempty"`
	Layout     json.RawMessage `json:"layout,omitempty"` // GeoJSON feature collection
	Start      *Cell           `json:"start,omitempty"`
	Goal       *Cell           `json:"goal,omitempty"`
	SaveToFile bool            `json:"saveToFile"`
	Force      bool            `json:"force,omitempty"` // Set to true to replace an existing workspace
}

// PlanRequest asks for a path between two grid cells. Planning runs
// between the cell centers, like the original grid selection.
type PlanRequest struct {
	Start  *Cell      `json:"start,omitempty"`
	Goal   *Cell      `json:"goal,omitempty"`
	Config PlanConfig `json:"config,omitempty"`
	Seed   *int64     `json:"seed,omitempty"`
}

// PlanResponse carries the outcome of one run. Success false with a
// message is the "no path found" signal, distinct from an empty path.
type PlanResponse struct {
	Success    bool    `json:"success"`
	RunID      string  `json:"runId,omitempty"`
	Path       []Point `json:"path,omitempty"`
	RawPath    []Point `json:"rawPath,omitempty"`
	Distance   float64 `json:"distance,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	TreeSize   int     `json:"treeSize,omitempty"`
	Message    string  `json:"message,omitempty"`
}

var (
	globalWorkspace *Workspace
	globalEditor    *Editor
	globalStart     *Cell
	globalGoal      *Cell
	lastTree        *Tree
	lastPath        []Point
	wsMutex         sync.RWMutex
)

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// POST /workspace - Create (or replace) the active workspace
func workspaceHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Workspace setup request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req WorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	wsMutex.RLock()
	alreadyExists := globalWorkspace != nil
	wsMutex.RUnlock()

	if alreadyExists && !req.Force {
		log.Println("⚠️  Workspace already exists; set force:true to replace it")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   "workspace already exists",
			"message": "A workspace is already configured. Set 'force: true' to replace it.",
		})
		return
	}

	// Set defaults
	if req.GridSize == 0 {
		req.GridSize = 5
	}
	if req.CanvasSize == 0 {
		req.CanvasSize = 500
	}

	obstacles := req.Obstacles
	if len(req.Layout) > 0 {
		layoutCells, err := ObstaclesFromGeoJSON(req.Layout, req.GridSize, req.CanvasSize)
		if err != nil {
			log.Printf("❌ %v\n", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		obstacles = append(obstacles, layoutCells...)
	}

	ws, err := NewWorkspace(req.GridSize, req.CanvasSize, obstacles)
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wsMutex.Lock()
	globalWorkspace = ws
	globalEditor = NewEditor(ws)
	globalStart = req.Start
	globalGoal = req.Goal
	lastTree = nil
	lastPath = nil
	wsMutex.Unlock()

	if req.SaveToFile {
		if err := SaveWorkspace(ws, workspaceFilename); err != nil {
			log.Printf("⚠️  Failed to save workspace: %v\n", err)
		}
	}

	log.Printf("✅ Workspace ready: %dx%d grid, cell size %.1f, %d obstacles\n",
		ws.GridSize, ws.GridSize, ws.CellSize, ws.ObstacleCount())
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"gridSize":      ws.GridSize,
		"canvasSize":    ws.CanvasSize,
		"cellSize":      ws.CellSize,
		"obstacleCount": ws.ObstacleCount(),
	})
}

// POST /workspace/toggle - Toggle one obstacle cell (records undo)
func toggleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Cell Cell `json:"cell"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	wsMutex.Lock()
	defer wsMutex.Unlock()

	if globalEditor == nil {
		http.Error(w, "No workspace configured. Call /workspace first", http.StatusBadRequest)
		return
	}
	if (globalStart != nil && *globalStart == req.Cell) || (globalGoal != nil && *globalGoal == req.Cell) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "cell holds the start or goal marker",
		})
		return
	}

	blocked, err := globalEditor.Toggle(req.Cell)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("✏️  Toggled cell (%d,%d) -> blocked=%v\n", req.Cell.Row, req.Cell.Col, blocked)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"blocked":       blocked,
		"obstacleCount": globalWorkspace.ObstacleCount(),
	})
}

// POST /workspace/undo and /workspace/redo - Edit history
func historyHandler(redo bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		wsMutex.Lock()
		defer wsMutex.Unlock()

		if globalEditor == nil {
			http.Error(w, "No workspace configured. Call /workspace first", http.StatusBadRequest)
			return
		}

		var cell Cell
		var ok bool
		if redo {
			cell, ok = globalEditor.Redo()
		} else {
			cell, ok = globalEditor.Undo()
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": false,
				"message": "nothing to apply",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"cell":          cell,
			"obstacleCount": globalWorkspace.ObstacleCount(),
			"undoDepth":     globalEditor.UndoDepth(),
			"redoDepth":     globalEditor.RedoDepth(),
		})
	}
}

// resolvePlanInput validates a plan request against the active
// workspace and resolves grid cells to continuous start/goal points.
// The returned workspace is a snapshot: the run sees a fixed grid
// even when toggle edits land while it is still planning.
func resolvePlanInput(req *PlanRequest) (*Workspace, Point, Point, int64, error) {
	wsMutex.Lock()
	defer wsMutex.Unlock()

	if globalWorkspace == nil {
		return nil, Point{}, Point{}, 0, errors.New("no workspace configured, call /workspace first")
	}
	if req.Start == nil {
		req.Start = globalStart
	}
	if req.Goal == nil {
		req.Goal = globalGoal
	}
	if req.Start == nil || req.Goal == nil {
		return nil, Point{}, Point{}, 0, errors.New("start and goal cells are required")
	}
	globalStart = req.Start
	globalGoal = req.Goal

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ws := globalWorkspace.Clone()
	start := ws.CellCenter(*req.Start)
	goal := ws.CellCenter(*req.Goal)
	return ws, start, goal, seed, nil
}

// POST /plan - Run RRT* between start and goal
func planHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Plan request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ws, start, goal, seed, err := resolvePlanInput(&req)
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	log.Printf("   Run %s\n", runID)
	log.Printf("   Start: (%.1f, %.1f)  Goal: (%.1f, %.1f)\n", start.X, start.Y, goal.X, goal.Y)

	planner := NewPlanner(ws, req.Config, seed)
	result, err := planner.Plan(r.Context(), start, goal)
	if err != nil {
		log.Printf("❌ %v\n", err)
		writeJSON(w, http.StatusBadRequest, PlanResponse{
			Success: false,
			RunID:   runID,
			Message: err.Error(),
		})
		log.Println("========================================")
		return
	}

	resp := PlanResponse{
		RunID:      runID,
		Iterations: result.Iterations,
		TreeSize:   result.Tree.Len(),
	}

	if result.Found {
		rawPath, err := ExtractPath(result.Tree, result.GoalIndex)
		if err != nil {
			log.Printf("❌ %v\n", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		smoothed := SmoothPath(ws, rawPath)

		resp.Success = true
		resp.Path = smoothed
		resp.RawPath = rawPath
		resp.Distance = PathLength(smoothed)

		log.Printf("✅ Path found: %d waypoints (%d before smoothing), length %.1f\n",
			len(smoothed), len(rawPath), resp.Distance)
		log.Printf("   Tree size: %d nodes in %d iterations\n", result.Tree.Len(), result.Iterations)
	} else {
		resp.Message = "no path found within iteration budget"
		log.Printf("❌ No path found after %d iterations (%d nodes)\n", result.Iterations, result.Tree.Len())
	}

	wsMutex.Lock()
	lastTree = result.Tree
	lastPath = resp.Path
	wsMutex.Unlock()

	writeJSON(w, http.StatusOK, resp)
	log.Println("========================================")
}

// GET /getTreeLines - Get the last run's tree edges for visualization
func treeLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wsMutex.RLock()
	tree := lastTree
	path := lastPath
	wsMutex.RUnlock()

	if tree == nil {
		http.Error(w, "No planning run recorded. Call /plan first", http.StatusBadRequest)
		return
	}

	nodes := tree.Nodes()
	lines := make([][]Point, 0, len(nodes)-1)
	for _, node := range nodes {
		if node.Parent == rootSentinel {
			continue
		}
		lines = append(lines, []Point{nodes[node.Parent].Point, node.Point})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"path":     path,
		"numNodes": len(nodes),
		"numEdges": len(lines),
	})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	wsMutex.RLock()
	hasWorkspace := globalWorkspace != nil
	gridSize := 0
	obstacleCount := 0
	if globalWorkspace != nil {
		gridSize = globalWorkspace.GridSize
		obstacleCount = globalWorkspace.ObstacleCount()
	}
	wsMutex.RUnlock()

	status := "ready"
	if !hasWorkspace {
		status = "waiting for workspace"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        status,
		"hasWorkspace":  hasWorkspace,
		"gridSize":      gridSize,
		"obstacleCount": obstacleCount,
	})
}

func main() {
	log.Println("========================================")
	log.Println("🚀 RRT* Grid Planner Server")
	log.Println("========================================")
	log.Println("Checking for existing workspace file...")

	if ws, err := LoadWorkspace(workspaceFilename); err == nil {
		wsMutex.Lock()
		globalWorkspace = ws
		globalEditor = NewEditor(ws)
		wsMutex.Unlock()
	} else {
		log.Println("ℹ️  No existing workspace found (this is normal on first run)")
		log.Println("   Call /workspace to configure one")
	}
	log.Println("")

	http.HandleFunc("/workspace", corsMiddleware(workspaceHandler))
	http.HandleFunc("/workspace/toggle", corsMiddleware(toggleHandler))
	http.HandleFunc("/workspace/undo", corsMiddleware(historyHandler(false)))
	http.HandleFunc("/workspace/redo", corsMiddleware(historyHandler(true)))
	http.HandleFunc("/plan", corsMiddleware(planHandler))
	http.HandleFunc("/planStream", planStreamHandler)
	http.HandleFunc("/getTreeLines", corsMiddleware(treeLinesHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	log.Println("Server starting on :8080")
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /workspace         - Configure the grid workspace")
	log.Println("  POST /workspace/toggle  - Toggle an obstacle cell")
	log.Println("  POST /workspace/undo    - Undo the last toggle")
	log.Println("  POST /workspace/redo    - Redo the last undone toggle")
	log.Println("  POST /plan              - Run RRT* between start and goal cells")
	log.Println("  GET  /planStream        - Run RRT* over a websocket with live tree growth")
	log.Println("  GET  /getTreeLines      - Get the last run's tree edges for visualization")
	log.Println("  GET  /health            - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
