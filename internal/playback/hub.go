package playback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types pushed to viewers.
const (
	MessageHello    = "hello"
	MessageTick     = "tick"
	MessageFinished = "finished"
)

// Message is the JSON envelope of every websocket message.
type Message struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ErrHubClosed is returned when publishing to a hub that has stopped.
var ErrHubClosed = errors.New("playback: hub closed")

const (
	sendBuffer  = 256
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	maxReadSize = 512
)

type client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected viewers and broadcasts messages to all of them.
// Viewers are read-only; anything they send is discarded.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	connectedOnce sync.Once
	connected     chan struct{}
}

// NewHub creates a Hub. Call Run to start it.
//
// Postcondition: logger nil is replaced with a no-op logger.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		connected:  make(chan struct{}),
	}
}

// Run is the hub event loop. It blocks until ctx is cancelled, then
// disconnects every viewer.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.connectedOnce.Do(func() { close(h.connected) })
			h.logger.Info("viewer connected",
				zap.String("session", c.id.String()),
				zap.Int("viewers", len(h.clients)),
			)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("viewer disconnected", zap.String("session", c.id.String()))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("viewer too slow, dropped", zap.String("session", c.id.String()))
				}
			}
		}
	}
}

// Connected is closed when the first viewer registers.
func (h *Hub) Connected() <-chan struct{} { return h.connected }

// Publish encodes m and queues it for every connected viewer.
func (h *Hub) Publish(ctx context.Context, m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Follow relays frames to every viewer until frames is closed.
//
// Postcondition: returns nil after the last frame was relayed, or the first
// publish error.
func (h *Hub) Follow(ctx context.Context, frames <-chan Frame) error {
	for f := range frames {
		typ := MessageTick
		if f.Final() {
			typ = MessageFinished
		}
		if err := h.Publish(ctx, Message{Type: typ, Payload: f}); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and registers the viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{id: uuid.New(), hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	hello, err := json.Marshal(Message{Type: MessageHello, Session: c.id.String()})
	if err != nil {
		conn.Close()
		return
	}
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("viewer read error", zap.String("session", c.id.String()), zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
