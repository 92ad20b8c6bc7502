package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/curlcount/internal/log"
	"github.com/ayusman/curlcount/internal/session"
)

const (
	writeWait  = 2 * time.Second
	clientSend = 32 // frames buffered per client before results are dropped
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// ResultsHub broadcasts frame results to WebSocket clients.
type ResultsHub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewResultsHub creates an empty hub.
func NewResultsHub() *ResultsHub {
	return &ResultsHub{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request and streams results until the client leaves.
func (h *ResultsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSend)}
	if !h.add(c) {
		conn.Close()
		return
	}
	log.Debug("results client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)

	// Reads only detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	log.Debug("results client disconnected", "remote", r.RemoteAddr)
}

func (h *ResultsHub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *ResultsHub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *ResultsHub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Publish sends res to every client. Clients that fall behind miss results.
func (h *ResultsHub) Publish(res session.Result) {
	msg, err := json.Marshal(res)
	if err != nil {
		log.Error("failed to encode result", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *ResultsHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients and refuses new ones.
func (h *ResultsHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
