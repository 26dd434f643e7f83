package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is a domain event pushed to a connected client: a new notification,
// an offer landing on a dashboard, a checklist row changing. The hub is
// purely a pass-through — correctness lives in the persisted rows, and a
// client that misses an event recovers by refetching.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub manages all WebSocket connections, keyed by user. A user may hold
// several connections (two browser tabs); each gets every event.
type Hub struct {
	clients map[uint]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	events     chan targetedEvent

	mu sync.RWMutex
}

type targetedEvent struct {
	userID uint
	event  *Event
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan targetedEvent, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Client registered: user=%d", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: user=%d", client.UserID)

		case te := <-h.events:
			h.deliver(te.userID, te.event)
		}
	}
}

// NotifyUser queues an event for every active connection of a user. Never
// blocks the caller: a full queue drops the event, the client refetches.
func (h *Hub) NotifyUser(userID uint, eventType string, data interface{}) {
	if h == nil {
		return
	}
	event := &Event{Type: eventType, Timestamp: time.Now(), Data: data}
	select {
	case h.events <- targetedEvent{userID: userID, event: event}:
	default:
		log.Printf("⚠️ Event queue full, dropping %s for user %d", eventType, userID)
	}
}

func (h *Hub) deliver(userID uint, event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			log.Printf("⚠️ Send buffer full for user %d, dropping event", userID)
		}
	}
}

// ConnectedUsers returns the number of distinct users with live connections
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
