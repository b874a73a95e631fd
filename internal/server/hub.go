package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// client is one websocket subscriber, bound to a user.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub maintains the set of subscribed clients and routes snapshot
// payloads to the clients of one user.
type Hub struct {
	clients    map[*client]bool
	push       chan targeted
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

type targeted struct {
	userID  string
	payload []byte
}

// NewHub creates a hub. Call Run in its own goroutine before use.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		push:       make(chan targeted),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Push sends a payload to every client subscribed as the given user.
// A push against a closed hub is dropped.
func (h *Hub) Push(userID string, payload []byte) {
	select {
	case h.push <- targeted{userID: userID, payload: payload}:
	case <-h.done:
	}
}

// Close stops the hub loop. Run disconnects every remaining subscriber
// before it returns; their write pumps see the closed send channel and
// shut the connections down.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// subscribe hands a client to the loop. A closed hub refuses it.
func (h *Hub) subscribe(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// drop detaches a client. Safe to call after Close.
func (h *Hub) drop(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run is the hub's main loop. It owns the client set and exits when the
// hub is closed.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("subscriber connected", "user_id", c.userID)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("subscriber disconnected", "user_id", c.userID)
			}
		case msg := <-h.push:
			for c := range h.clients {
				if c.userID != msg.userID {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer: drop it rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// readPump drains the connection so close frames and pongs are handled.
// Client-to-server traffic is otherwise ignored: all writes go over HTTP.
func (c *client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pumps payloads from the hub to the websocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
