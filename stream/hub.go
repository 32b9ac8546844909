// Package stream broadcasts telemetry to WebSocket clients.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Message is the envelope every client receives.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans messages out to every connected client. Publishing never blocks
// the caller: when the queue is full the message is dropped.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader

	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	dropped atomic.Uint64
}

// NewHub creates a hub and starts its broadcaster goroutine.
func NewHub(queue int) *Hub {
	if queue <= 0 {
		queue = 64
	}
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, queue),
		done:      make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. Client messages are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[conn] = true
	h.mu.Unlock()
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(conn)
	slog.Info("stream client disconnected", "remote", r.RemoteAddr)
}

// Publish queues a message for every client.
func (h *Hub) Publish(kind string, data any) error {
	payload, err := json.Marshal(Message{Type: kind, Data: data})
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return nil
	default:
	}

	select {
	case h.broadcast <- payload:
	default:
		if h.dropped.Add(1) == 1 {
			slog.Warn("stream queue full, dropping messages", "type", kind)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns the number of messages dropped on a full queue.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// send writes payload to every client, outside the lock, and drops clients
// whose write fails.
func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Close disconnects every client and stops the broadcaster.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		close(h.done)
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
		h.wg.Wait()
	})
	return nil
}
