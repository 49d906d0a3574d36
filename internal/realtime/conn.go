package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection with a write lock. Broadcasts run
// on whichever request goroutine mutated the ticket, and each served
// connection also has a ping loop and a welcome write; gorilla permits
// a single concurrent writer, so every outbound frame goes through
// this wrapper. Reads stay on the underlying connection.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteJSON writes one JSON frame under the write lock, bounded by the
// broadcast deadline.
func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

// Ping sends a ping control frame under the write lock.
func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
