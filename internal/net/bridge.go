// Package net exposes the drawing commands to other processes over a
// websocket and advertises them on the local network.
package net

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BridgePath is the HTTP path the bridge is served on.
const BridgePath = "/ws"

const writeWait = 2 * time.Second

// Request is one command sent by a client.
type Request struct {
	ID     json.RawMessage   `json:"id,omitempty"`
	Action string            `json:"action"`
	Args   []json.RawMessage `json:"args,omitempty"`
}

// Response answers a Request with the same id.
type Response struct {
	ID    json.RawMessage `json:"id,omitempty"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
}

// Event is pushed to every client when the document changes.
type Event struct {
	Event   string `json:"event"`
	Version uint64 `json:"version"`
}

// Dispatcher runs named actions. command.Registry implements it.
type Dispatcher interface {
	Dispatch(action string, args []json.RawMessage) (bool, error)
}

type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(v)
}

// Bridge is an http.Handler that upgrades to a websocket and dispatches
// each request on the UI goroutine through post.
type Bridge struct {
	d        Dispatcher
	post     func(func())
	upgrader websocket.Upgrader

	peers map[*websocket.Conn]*peer
	mu    sync.RWMutex
}

// NewBridge returns a bridge over d. A nil post runs actions on the
// connection goroutine.
func NewBridge(d Dispatcher, post func(func())) *Bridge {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Bridge{
		d:     d,
		post:  post,
		peers: make(map[*websocket.Conn]*peer),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (b *Bridge) add(c *websocket.Conn) *peer {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &peer{conn: c}
	b.peers[c] = p
	log.Printf("[BRIDGE] Client connected from %s", c.RemoteAddr())
	return p
}

func (b *Bridge) remove(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.peers, c)
	log.Printf("[BRIDGE] Client disconnected from %s", c.RemoteAddr())
}

// Peers returns the number of connected clients.
func (b *Bridge) Peers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.peers)
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[BRIDGE] Upgrade failed: %v", err)
		return
	}
	defer c.Close()
	p := b.add(c)
	defer b.remove(c)

	for {
		var req Request
		if err := c.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[BRIDGE] Read error: %v", err)
			}
			return
		}
		resp := b.run(req)
		if err := p.send(resp); err != nil {
			log.Printf("[BRIDGE] Write error: %v", err)
			return
		}
	}
}

func (b *Bridge) run(req Request) Response {
	var (
		ok   bool
		err  error
		done = make(chan struct{})
	)
	b.post(func() {
		defer close(done)
		ok, err = b.d.Dispatch(req.Action, req.Args)
	})
	<-done
	resp := Response{ID: req.ID, OK: ok}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// Broadcast sends v to every connected client.
func (b *Bridge) Broadcast(v any) {
	b.mu.RLock()
	peers := make([]*peer, 0, len(b.peers))
	for _, p := range b.peers {
		peers = append(peers, p)
	}
	b.mu.RUnlock()
	for _, p := range peers {
		if err := p.send(v); err != nil {
			log.Printf("[BRIDGE] Error sending to %s: %v", p.conn.RemoteAddr(), err)
		}
	}
}

// Close disconnects every client.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.peers {
		c.Close()
	}
}
