// Package preview streams annotated frames to remote viewers (the arm display
// or a bench laptop) over WebSocket.
package preview

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans frames out to connected WebSocket clients. Each client has a small
// send queue; a client whose queue is full when a frame arrives is dropped so
// the render loop never waits on the network.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte

	upgrader     websocket.Upgrader
	queue        int
	writeTimeout time.Duration
	encoder      png.Encoder
	log          *slog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns an empty hub. queue is the per-client backlog in frames.
func NewHub(queue int) *Hub {
	if queue <= 0 {
		queue = 2
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		queue:        queue,
		writeTimeout: 2 * time.Second,
		encoder:      png.Encoder{CompressionLevel: png.BestSpeed},
		log:          slog.Default().With("component", "preview"),
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Latest returns the most recently broadcast message, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Broadcast queues msg for every client without blocking and returns how many
// clients accepted it. The caller must not modify msg afterwards.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	sent := 0
	for c := range h.clients {
		select {
		case c.send <- msg:
			sent++
		default:
			h.log.Warn("dropping slow client", "remote", remote(c))
			h.removeLocked(c)
		}
	}
	return sent
}

// BroadcastFrame PNG-encodes img and broadcasts it.
func (h *Hub) BroadcastFrame(img image.Image) error {
	var buf bytes.Buffer
	if err := h.encoder.Encode(&buf, img); err != nil {
		return err
	}
	h.Broadcast(buf.Bytes())
	return nil
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.queue)}
	h.add(c)
	go h.writeLoop(c)
	go h.readLoop(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("client connected", "remote", remote(c), "clients", n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			h.log.Debug("write failed", "remote", remote(c), "err", err)
			h.remove(c)
			return
		}
	}
}

// readLoop only exists to notice the peer going away; viewers send nothing.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("read failed", "remote", remote(c), "err", err)
			}
			h.remove(c)
			return
		}
	}
}

func remote(c *client) string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}
