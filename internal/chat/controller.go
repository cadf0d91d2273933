// Package chat drives one conversation session over the realtime channel.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"assistant-client/internal/models"
	"assistant-client/internal/socket"
	"assistant-client/internal/store"
)

var (
	// ErrInvalidMessage rejects blank or overlong content before transmission.
	ErrInvalidMessage = errors.New("chat: message is empty or too long")
	// ErrBusy rejects a send while a reply is still pending. The wire
	// protocol has no correlation IDs, so only one request may be
	// outstanding at a time.
	ErrBusy = errors.New("chat: a reply is still pending")
)

// Sender writes one outbound text frame. Satisfied by *socket.Manager.
type Sender interface {
	Send(text string) error
}

// Config tunes the controller.
type Config struct {
	ResponseTimeout time.Duration // pending reply deadline
	MaxMessageLen   int           // rune cap on outbound content
}

// Controller appends user turns, transmits them, and resolves each turn
// with the next ai_response or error event seen on the connection.
type Controller struct {
	store  *store.Store
	sender Sender
	logger *logrus.Logger
	cfg    Config
	now    func() time.Time

	mu       sync.Mutex
	inflight bool
	turn     int // generation counter tying timeouts to their send
	timer    *time.Timer
}

func NewController(st *store.Store, sender Sender, logger *logrus.Logger, cfg Config) *Controller {
	if cfg.ResponseTimeout == 0 {
		cfg.ResponseTimeout = 60 * time.Second
	}
	if cfg.MaxMessageLen == 0 {
		cfg.MaxMessageLen = 2000
	}
	return &Controller{
		store:  st,
		sender: sender,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Attach subscribes the controller to the inbound frame stream and returns
// the unsubscribe func.
func (c *Controller) Attach(d *socket.Dispatcher) func() {
	return d.Subscribe(c.handleFrame)
}

// Busy reports whether a reply is pending.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// SendMessage validates content, appends the user turn, and transmits the
// raw content as a bare text frame. Exactly one user Message is appended
// before any reply is processed.
func (c *Controller) SendMessage(content string) error {
	if !models.ValidateMessage(content, c.cfg.MaxMessageLen) {
		return ErrInvalidMessage
	}

	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inflight = true
	c.turn++
	turn := c.turn
	c.mu.Unlock()

	c.store.AppendMessage(models.NewMessage(content, models.SenderUser, c.now()))

	if err := c.sender.Send(content); err != nil {
		c.logger.Errorf("Chat send failed: %v", err)
		c.resolve("Error sending message")
		return fmt.Errorf("send message: %w", err)
	}

	c.armTimeout(turn)
	return nil
}

// ClearChat empties the conversation history unconditionally.
func (c *Controller) ClearChat() {
	c.store.ClearChat()
}

// handleFrame resolves the pending turn with the next chat-typed event.
// Notification and unknown types are ignored here; malformed frames are
// logged and dropped.
func (c *Controller) handleFrame(frame []byte) {
	var ev models.Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		c.logger.Errorf("Chat frame parse failed: %v", err)
		return
	}

	switch ev.Type {
	case models.EventAIResponse:
		c.resolve(ev.Message)
	case models.EventError:
		c.resolve(fmt.Sprintf("Error: %s", ev.Message))
	}
}

// resolve appends an ai Message and clears the in-flight flag.
func (c *Controller) resolve(text string) {
	c.mu.Lock()
	c.inflight = false
	c.turn++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.store.AppendMessage(models.NewMessage(text, models.SenderAI, c.now()))
}

// armTimeout schedules the reply deadline for the given turn. A send with
// no reply must not leave the flag set forever.
func (c *Controller) armTimeout(turn int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = time.AfterFunc(c.cfg.ResponseTimeout, func() {
		c.mu.Lock()
		stale := !c.inflight || c.turn != turn
		c.mu.Unlock()
		if stale {
			return
		}
		c.logger.Errorf("Chat reply timed out after %s", c.cfg.ResponseTimeout)
		c.resolve("Error: response timed out")
	})
}
