// server/internal/socket/hub.go
package socket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	// gorilla connections allow one concurrent writer.
	writeMu sync.Mutex
}

// Hub tracks one websocket connection per user id.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register adds conn for userID, closing any connection it replaces.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = &client{conn: conn}
	h.mu.Unlock()

	if old != nil && old.conn != conn {
		_ = old.conn.Close()
	}
	h.log.Debug().Str("userId", userID).Msg("WebSocket client registered")
}

// Unregister removes conn if it is still the user's current connection.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok && c.conn == conn {
		delete(h.clients, userID)
		h.log.Debug().Str("userId", userID).Msg("WebSocket client unregistered")
	}
}

// Connected reports whether userID has a live connection.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Send writes message to the user's connection. An offline user is not an error.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		h.log.Debug().Str("userId", userID).Msg("WebSocket client not connected, message skipped")
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}
