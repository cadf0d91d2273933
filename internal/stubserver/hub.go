package stubserver

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const maxConnsPerToken = 10

// Hub tracks websocket connections per auth token and serializes all
// writes, since gorilla connections allow one concurrent writer.
type Hub struct {
	connections map[string]map[*websocket.Conn]bool
	mutex       sync.Mutex
	logger      *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		connections: make(map[string]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// AddConnection registers a connection under its token.
func (h *Hub) AddConnection(token string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, exists := h.connections[token]; !exists {
		h.connections[token] = make(map[*websocket.Conn]bool)
	}
	if len(h.connections[token]) >= maxConnsPerToken {
		h.logger.Warnf("Max connections reached for token %.8s", token)
		return
	}
	h.connections[token][conn] = true
	h.logger.Infof("Added connection for token %.8s (total: %d)", token, len(h.connections[token]))
}

// RemoveConnection drops a connection.
func (h *Hub) RemoveConnection(token string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if conns, exists := h.connections[token]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.connections, token)
		}
		h.logger.Infof("Removed connection for token %.8s (remaining: %d)", token, len(conns))
	}
}

// WriteTo sends one text frame to a single connection.
func (h *Hub) WriteTo(conn *websocket.Conn, message []byte) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return conn.WriteMessage(websocket.TextMessage, message)
}

// SendToToken sends a text frame to every connection of a token; dead
// connections are pruned.
func (h *Hub) SendToToken(token string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if conns, exists := h.connections[token]; exists {
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Errorf("Failed to send to token %.8s: %v", token, err)
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.connections, token)
		}
	}
}

// Broadcast sends a text frame to every connection on the hub.
func (h *Hub) Broadcast(message []byte) {
	h.mutex.Lock()
	tokens := make([]string, 0, len(h.connections))
	for token := range h.connections {
		tokens = append(tokens, token)
	}
	h.mutex.Unlock()

	for _, token := range tokens {
		h.SendToToken(token, message)
	}
}
