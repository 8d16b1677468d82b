// internal/messaging/hub.go

package messaging

import (
	"context"
	"log"
	"sync"
)

// Conn is a live connection the hub can deliver to
type Conn interface {
	ID() string
	// Send queues payload without blocking. An error means the connection
	// can no longer receive and should be dropped.
	Send(payload []byte) error
	Close()
}

// Hub tracks which connections belong to which channel and fans messages out
// to them. A single mutex guards the membership map, and Broadcast holds it
// while queueing, so deliveries to one channel happen in submission order.
type Hub struct {
	mu          sync.Mutex
	channels    map[string]map[Conn]struct{}
	connections int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[Conn]struct{}),
	}
}

// Register adds conn to channelID, creating the channel if needed
func (h *Hub) Register(conn Conn, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.channels[channelID]
	if !ok {
		members = make(map[Conn]struct{})
		h.channels[channelID] = members
	}
	if _, exists := members[conn]; exists {
		return
	}

	members[conn] = struct{}{}
	h.connections++
	h.observe()

	log.Printf("🔌 %s joined %s (%d in channel)", conn.ID(), channelID, len(members))
}

// Deregister removes conn from channelID. It is a no-op when conn is not a
// member, and deletes the channel once it is empty.
func (h *Hub) Deregister(conn Conn, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.remove(conn, channelID) {
		log.Printf("🔌 %s left %s", conn.ID(), channelID)
	}
}

// remove must be called with h.mu held
func (h *Hub) remove(conn Conn, channelID string) bool {
	members, ok := h.channels[channelID]
	if !ok {
		return false
	}
	if _, exists := members[conn]; !exists {
		return false
	}

	delete(members, conn)
	if len(members) == 0 {
		delete(h.channels, channelID)
	}
	h.connections--
	h.observe()
	return true
}

// Broadcast queues payload on every member of channelID, the sender included,
// and returns how many accepted it. Members that fail are dropped and closed.
func (h *Hub) Broadcast(channelID string, payload []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	broadcastsTotal.Inc()

	delivered := 0
	for conn := range h.channels[channelID] {
		if err := conn.Send(payload); err != nil {
			failedDeliveriesTotal.Inc()
			log.Printf("⚠️  Dropping %s from %s: %v", conn.ID(), channelID, err)
			h.remove(conn, channelID)
			conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Fanout delivers payload to local members only
func (h *Hub) Fanout(_ context.Context, channelID string, payload []byte) error {
	h.Broadcast(channelID, payload)
	return nil
}

// Members returns the number of connections in channelID
func (h *Hub) Members(channelID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[channelID])
}

// ChannelCount returns the number of non-empty channels
func (h *Hub) ChannelCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// GetActiveConnections returns the number of registered connections
func (h *Hub) GetActiveConnections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connections
}

// Shutdown closes every connection and empties the hub
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, members := range h.channels {
		for conn := range members {
			conn.Close()
		}
	}
	h.channels = make(map[string]map[Conn]struct{})
	h.connections = 0
	h.observe()
}

func (h *Hub) observe() {
	activeConnections.Set(float64(h.connections))
	activeChannels.Set(float64(len(h.channels)))
}
