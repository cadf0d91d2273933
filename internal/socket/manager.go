package socket

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ErrNotConnected is returned by Send when no connection is live.
var ErrNotConnected = errors.New("socket: not connected")

// Manager owns at most one live websocket connection, keyed by the current
// auth state. Only the Manager creates or closes connections; consumers
// read frames through the Dispatcher and write through Send.
type Manager struct {
	wsURL      string
	policy     DialPolicy
	logger     *logrus.Logger
	dispatcher *Dispatcher

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewManager builds a Manager for the given websocket endpoint. A nil
// policy means NoRetry.
func NewManager(wsURL string, policy DialPolicy, logger *logrus.Logger) *Manager {
	if policy == nil {
		policy = NoRetry{}
	}
	return &Manager{
		wsURL:      wsURL,
		policy:     policy,
		logger:     logger,
		dispatcher: NewDispatcher(),
	}
}

// Dispatcher exposes the inbound frame stream.
func (m *Manager) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// SetAuth reacts to an auth transition. (true, non-empty token) opens a
// fresh connection parameterized by the token; any other state closes and
// clears the current one. A closed connection is never reused.
func (m *Manager) SetAuth(loggedIn bool, token string) error {
	m.closeCurrent()

	if !loggedIn || token == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s?authToken=%s", m.wsURL, url.QueryEscape(token))

	var conn *websocket.Conn
	var err error
	attempts := m.policy.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, _, err = websocket.DefaultDialer.Dial(endpoint, nil)
		if err == nil {
			break
		}
		m.logger.Errorf("WebSocket dial attempt %d/%d failed: %v", attempt, attempts, err)
		if attempt < attempts {
			time.Sleep(m.policy.Backoff(attempt))
		}
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", m.wsURL, err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.logger.Infof("WebSocket connection established")

	go m.readLoop(conn)
	return nil
}

// Send writes one bare text frame over the live connection.
func (m *Manager) Send(text string) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Connected reports whether a live connection handle exists.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Close tears down the current connection, if any.
func (m *Manager) Close() {
	m.closeCurrent()
}

func (m *Manager) closeCurrent() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
		m.logger.Infof("WebSocket connection closed")
	}
}

// readLoop delivers inbound frames until the connection dies. When it dies
// the handle is cleared; no redial happens until the next auth transition.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			if m.conn == conn {
				m.conn = nil
			}
			m.mu.Unlock()
			m.logger.Infof("WebSocket read loop ended: %v", err)
			return
		}
		m.dispatcher.Publish(frame)
	}
}
