package realtime

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// Hub is the subscription registry: project id -> set of connections.
// It holds non-owning references; connections join on the joinProject
// control message and are removed on disconnect. There is no explicit
// unsubscribe API and no replay — a subscriber that was disconnected
// during an event misses it until the next full fetch.
type Hub struct {
	mu     sync.RWMutex
	topics map[uint]map[*Conn]bool
}

func NewHub() *Hub {
	return &Hub{topics: make(map[uint]map[*Conn]bool)}
}

// Default is the hub the HTTP handlers publish to.
var Default = NewHub()

func (h *Hub) Join(projectID uint, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.topics[projectID] == nil {
		h.topics[projectID] = make(map[*Conn]bool)
	}
	h.topics[projectID][conn] = true
}

func (h *Hub) Leave(projectID uint, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(projectID, conn)
}

func (h *Hub) remove(projectID uint, conn *Conn) {
	if conns, exists := h.topics[projectID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.topics, projectID)
		}
	}
}

// Subscribers returns the current number of connections on a topic.
func (h *Hub) Subscribers(projectID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.topics[projectID])
}

// Publish sends the event to every connection on the project's topic.
// Delivery is at-most-once, fire-and-forget: a connection that fails to
// take the write is evicted and closed, and nobody is retried. Writes
// are serialized per connection by Conn, so concurrent publishers on
// the same topic are safe.
func (h *Hub) Publish(projectID uint, event Event) {
	h.mu.RLock()
	conns, exists := h.topics[projectID]
	if !exists || len(conns) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy the set so the lock is not held while writing
	connsCopy := make([]*Conn, 0, len(conns))
	for conn := range conns {
		connsCopy = append(connsCopy, conn)
	}
	h.mu.RUnlock()

	for _, conn := range connsCopy {
		if err := conn.WriteJSON(event); err != nil {
			logrus.Warnf("Failed to broadcast %s to client: %v", event.Type, err)
			h.mu.Lock()
			h.remove(projectID, conn)
			h.mu.Unlock()
			conn.Close()
		}
	}
}
