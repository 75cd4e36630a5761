package notify

import (
	"sync"
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Client is one open connection of a user.
type Client struct {
	ID     string
	UserID string
	conn   Conn

	mu sync.Mutex
}

// NewClient creates a new client wrapper.
func NewClient(id, userID string, conn Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
	}
}

// Send writes an event. Writes are serialized per connection.
func (c *Client) Send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(event)
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
