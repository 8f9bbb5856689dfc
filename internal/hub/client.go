package hub

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

// Client mediates between one WebSocket connection and the hub. Its room set
// lives and dies with the connection; a reconnecting client starts empty and
// must re-join its rooms.
type Client struct {
	Claims *auth.Claims
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte

	mu    sync.RWMutex
	rooms map[string]bool
}

// NewClient creates a client for an authenticated connection.
func NewClient(h *Hub, conn *websocket.Conn, claims *auth.Claims) *Client {
	return &Client{
		Claims: claims,
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
}

// JoinRoom registers this connection in the room. Joining twice is a no-op.
func (c *Client) JoinRoom(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[conversationID] = true
}

// InRoom reports whether this connection is registered in the room.
func (c *Client) InRoom(conversationID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[conversationID]
}

// readPump reads frames from the WebSocket and forwards them to the hub.
// Frames keep the order the connection issued them in.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		var frame domain.Frame
		if err := c.Conn.ReadJSON(&frame); err != nil {
			c.Hub.logger.Debug().Err(err).Str("userId", c.Claims.UserID).Msg("connection closed")
			break
		}
		c.Hub.frames <- &ClientFrame{Client: c, Frame: frame}
	}
}

// writePump drains the Send channel onto the WebSocket. It exits when the hub
// closes Send on unregister.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
