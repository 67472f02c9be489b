package websocket

import (
	"errors"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/savora-app/savora_backend/models"
)

const sendBuffer = 16

// ErrUserNotConnected is returned when a user has no open connection
var ErrUserNotConnected = errors.New("user not connected")

// Message is what the hub writes to a connection
type Message struct {
	Type         string               `json:"type"`
	Message      string               `json:"message,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	ID           string               `json:"id,omitempty"`
	UserID       string               `json:"userID,omitempty"`
}

// Client is one open connection. A user may have several.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	send   chan Message
}

// Hub maintains the set of active clients and routes messages to them
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop; it returns after Close
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
				close(client.send)
			}
			h.mu.Unlock()
		case <-h.done:
			h.mu.Lock()
			for userID, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close stops Run and closes every connection
func (h *Hub) Close() {
	close(h.done)
}

// Connections reports how many connections a user has open
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser queues msg on every connection of the user. Slow connections
// that have a full buffer drop the message.
func (h *Hub) SendToUser(userID string, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[userID]
	if !ok || len(conns) == 0 {
		return ErrUserNotConnected
	}
	for client := range conns {
		select {
		case client.send <- msg:
		default:
			log.Printf("Dropping websocket message for user %s: send buffer full", userID)
		}
	}
	return nil
}

// PublishNotificationEvent forwards a notification queue event to the user's connections
func (h *Hub) PublishNotificationEvent(userID string, ev models.NotificationEvent) {
	err := h.SendToUser(userID, Message{
		Type:         string(ev.Kind),
		Notification: ev.Notification,
		ID:           ev.ID,
	})
	if err != nil && !errors.Is(err, ErrUserNotConnected) {
		log.Printf("Error publishing notification event to user %s: %v", userID, err)
	}
}
