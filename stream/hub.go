// Package stream fans search progress out to websocket clients.
//
// Every connected client receives one JSON Event per published generation.
// A client that connects mid-run first receives the latest event, so it can
// draw the current best board immediately. Clients that cannot take a
// message within WriteTimeout are dropped.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sourcegraph/conc"

	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/tile"
)

// WriteTimeout bounds one write to one client.
const WriteTimeout = 3 * time.Second

// Event is the wire form of one generation.
type Event struct {
	Type       string            `json:"type"`
	Sequence   uint64            `json:"sequence"`
	Generation int               `json:"generation"`
	Score      int               `json:"score"`
	Breakdown  fitness.Breakdown `json:"breakdown"`
	Mean       float64           `json:"mean"`
	Worst      int               `json:"worst"`
	Board      *tile.Snapshot    `json:"board,omitempty"`
}

// Hub keeps the set of connected clients.
// mu guards the fields only; no client write happens under it.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	sequence uint64
	last     []byte
	version  uint64 // bumped with every change of last
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// Add registers conn.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

// Remove unregisters conn.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes message to every client and drops the ones that fail.
// Clients are written to concurrently, each bounded by WriteTimeout.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	h.last = message
	h.version++
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	var (
		wg     conc.WaitGroup
		failMu sync.Mutex
		failed []*websocket.Conn
	)
	for _, conn := range conns {
		conn := conn
		wg.Go(func() {
			if err := write(context.Background(), conn, message); err != nil {
				failMu.Lock()
				failed = append(failed, conn)
				failMu.Unlock()
			}
		})
	}
	wg.Wait()

	for _, conn := range failed {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		h.Remove(conn)
	}
}

func write(ctx context.Context, conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, message)
}

// Publish encodes p as an Event and broadcasts it.
func (h *Hub) Publish(p evolve.Progress) error {
	h.mu.Lock()
	h.sequence++
	ev := Event{
		Type:       "progress",
		Sequence:   h.sequence,
		Generation: p.Generation,
		Score:      p.Score,
		Breakdown:  p.Breakdown,
		Mean:       p.Mean,
		Worst:      p.Worst,
	}
	h.mu.Unlock()
	if p.Board != nil {
		snap := p.Board.Snapshot()
		ev.Board = &snap
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// Pump publishes every value received from updates until ctx ends.
// Run it on its own goroutine, fed by an evolve.Mailbox, so slow clients
// never hold up the search.
func (h *Hub) Pump(ctx context.Context, updates <-chan evolve.Progress) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-updates:
			if err := h.Publish(p); err != nil {
				return err
			}
		}
	}
}

// ServeHTTP upgrades the request to a websocket, sends the latest event and
// keeps the client registered until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Replay the latest event, then register. A broadcast that lands in
	// between changes version, and the newer event is replayed instead.
	for {
		h.mu.Lock()
		last, version := h.last, h.version
		h.mu.Unlock()
		if last != nil {
			if err := write(r.Context(), conn, last); err != nil {
				return
			}
		}
		h.mu.Lock()
		if h.version == version {
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
			break
		}
		h.mu.Unlock()
	}
	defer h.Remove(conn)

	// clients only listen; CloseRead discards input and ends on disconnect
	<-conn.CloseRead(r.Context()).Done()
}
