// Package broadcast fans out bar, signal, and alert events to
// WebSocket subscribers: history first, then a live stream, mirroring
// the teacher's hub/client registration pattern.
package broadcast

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is any JSON-serializable payload sent to subscribers: a Bar, an
// Alert, or a Signal update, tagged so the client can dispatch it.
type Event struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// HistoryProvider supplies the backlog a newly connected client should
// see before joining the live stream.
type HistoryProvider func() []Event

// Hub maintains connected clients and fans out events to all of them.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	history    HistoryProvider
}

// NewHub creates a hub. history may be nil if there is no backlog to replay.
func NewHub(history HistoryProvider) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 256),
		history:    history,
	}
}

// Run drains the hub's internal channels; it never returns (the hub has
// no stop method). Intended to run in its own goroutine for the process
// lifetime.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			log.Info().Int("clients", len(h.clients)).Msg("broadcast: client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Info().Int("clients", len(h.clients)).Msg("broadcast: client disconnected")
			}
		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client: drop this message rather than block the hub.
				}
			}
		}
	}
}

// Publish enqueues an event for fan-out. Non-blocking; drops on a full
// internal queue rather than stalling the caller (typically a resampler
// or alert-engine callback).
func (h *Hub) Publish(kind string, data any) {
	select {
	case h.broadcast <- Event{Kind: kind, Data: data}:
	default:
		log.Warn().Str("kind", kind).Msg("broadcast: queue full, dropping event")
	}
}

// ServeWS upgrades the request to a WebSocket, streams history, then
// registers the client for live events.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("broadcast: upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}

	if h.history != nil {
		for _, ev := range h.history() {
			msg, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				return
			}
		}
	}

	h.register <- c
	go c.writePump()
	go c.readPump()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
