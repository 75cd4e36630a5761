// Package notify pushes snapshot-changed events to connected dashboards.
package notify

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Notifier is told when a user's grants change.
type Notifier interface {
	SnapshotChanged(userID, workspaceID string)
}

// Hub tracks open connections per user.
type Hub struct {
	mu sync.RWMutex

	// users maps user ID to that user's clients keyed by client ID
	users map[string]map[string]*Client
}

var _ Notifier = (*Hub)(nil)

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[string]*Client)
	}
	h.users[client.UserID][client.ID] = client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.users[client.UserID]
	if !ok {
		return
	}

	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(h.users, client.UserID)
	}
}

// SnapshotChanged pushes a snapshot_changed event to every connection of userID.
func (h *Hub) SnapshotChanged(userID, workspaceID string) {
	h.Send(userID, Event{Type: EventSnapshotChanged, WorkspaceID: workspaceID})
}

// Send delivers event to every connection of userID without blocking the caller.
func (h *Hub) Send(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.users[userID] {
		go func(c *Client) {
			if err := c.Send(event); err != nil {
				log.Printf("Failed to push %s to client %s: %v", event.Type, c.ID, err)
			}
		}(client)
	}
}

// Serve registers conn for userID and blocks until the peer disconnects.
// Inbound frames are discarded; the read loop only detects the close.
func (h *Hub) Serve(conn Conn, userID string) {
	client := NewClient(uuid.New().String(), userID, conn)
	h.Register(client)

	defer func() {
		h.Unregister(client)
		_ = client.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ConnectionCount returns the number of open connections of userID.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID])
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.users {
		total += len(clients)
	}
	return total
}
