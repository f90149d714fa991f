package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSClient is one websocket connection belonging to an authenticated user.
type WSClient struct {
	UserID uuid.UUID
	Conn   *websocket.Conn

	mu sync.Mutex
}

// Send writes one event to the connection. Gorilla connections allow a
// single concurrent writer, hence the lock.
func (c *WSClient) Send(ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans feed events out to websocket clients. It holds exactly one feed
// subscription per user with open connections, so a user with several tabs
// gets each event once per connection, not once per tab per connection.
type Hub struct {
	feed *Feed

	mu      sync.Mutex
	clients map[uuid.UUID]map[*WSClient]struct{}
	cancels map[uuid.UUID]func()
}

func NewHub(feed *Feed) *Hub {
	return &Hub{
		feed:    feed,
		clients: make(map[uuid.UUID]map[*WSClient]struct{}),
		cancels: make(map[uuid.UUID]func()),
	}
}

// Register adds a connection, subscribing to the user's feed when it is
// their first one.
func (h *Hub) Register(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
		events, cancel := h.feed.Subscribe(c.UserID)
		h.cancels[c.UserID] = cancel
		go h.forward(events)
	}
	h.clients[c.UserID][c] = struct{}{}
}

// Unregister removes a connection, tearing the feed subscription down with
// the user's last one.
func (h *Hub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
			if cancel := h.cancels[c.UserID]; cancel != nil {
				cancel()
				delete(h.cancels, c.UserID)
			}
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *Hub) forward(events <-chan Event) {
	for ev := range events {
		h.broadcast(ev)
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	conns := make([]*WSClient, 0, len(h.clients[ev.UserID]))
	for c := range h.clients[ev.UserID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Send(ev)
	}
}
