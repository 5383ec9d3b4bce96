package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamEvent is one websocket message during a streamed run
type streamEvent struct {
	Type       string  `json:"type"` // "node", "rewire", "done", "error"
	Index      int     `json:"index,omitempty"`
	Parent     int     `json:"parent,omitempty"`
	Point      *Point  `json:"point,omitempty"`
	Success    bool    `json:"success,omitempty"`
	Path       []Point `json:"path,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	TreeSize   int     `json:"treeSize,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// streamObserver forwards tree growth to the websocket peer. Writes
// happen from inside the planning loop, so the connection sees nodes
// in insertion order. A failed write cancels the run rather than
// letting it grind on against a dead socket.
type streamObserver struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func (o *streamObserver) send(ev streamEvent) {
	if err := o.conn.WriteJSON(ev); err != nil {
		o.cancel()
	}
}

func (o *streamObserver) NodeAdded(index, parent int, at Point) {
	o.send(streamEvent{Type: "node", Index: index, Parent: parent, Point: &at})
}

func (o *streamObserver) NodeRewired(index, newParent int) {
	o.send(streamEvent{Type: "rewire", Index: index, Parent: newParent})
}

// GET /planStream - Run RRT* and stream tree growth over a websocket.
// The client sends one PlanRequest message, receives an event per
// inserted node and rewire, then a terminal "done" or "error" event.
func planStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v\n", err)
		return
	}
	defer conn.Close()

	var req PlanRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamEvent{Type: "error", Message: "invalid plan request"})
		return
	}

	ws, start, goal, seed, err := resolvePlanInput(&req)
	if err != nil {
		conn.WriteJSON(streamEvent{Type: "error", Message: err.Error()})
		return
	}

	runID := uuid.New().String()
	log.Printf("🔌 Streaming plan run %s\n", runID)

	// Upgrade hijacks the connection, so the request context no
	// longer notices a dropped peer; watch the socket ourselves and
	// abort the run when it goes away
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	planner := NewPlanner(ws, req.Config, seed)
	planner.Observer = &streamObserver{conn: conn, cancel: cancel}

	started := time.Now()
	result, err := planner.Plan(ctx, start, goal)
	if err != nil {
		conn.WriteJSON(streamEvent{Type: "error", Message: err.Error()})
		return
	}

	done := streamEvent{
		Type:       "done",
		Iterations: result.Iterations,
		TreeSize:   result.Tree.Len(),
	}
	if result.Found {
		rawPath, err := ExtractPath(result.Tree, result.GoalIndex)
		if err != nil {
			conn.WriteJSON(streamEvent{Type: "error", Message: err.Error()})
			return
		}
		done.Success = true
		done.Path = SmoothPath(ws, rawPath)
	} else {
		done.Message = "no path found within iteration budget"
	}

	wsMutex.Lock()
	lastTree = result.Tree
	lastPath = done.Path
	wsMutex.Unlock()

	log.Printf("🔌 Run %s finished in %.2fs (success=%v)\n", runID, time.Since(started).Seconds(), done.Success)
	conn.WriteJSON(done)
}
