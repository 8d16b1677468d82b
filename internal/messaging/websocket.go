// internal/messaging/websocket.go

package messaging

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Channel namespaces. Room, match and nearby ids are independent UUID spaces,
// so each socket route gets its own prefix.
const (
	NamespaceRoom   = "room"
	NamespaceMatch  = "match"
	NamespaceNearby = "nearby"
)

// Upgrader for WebSocket connections
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Fanout delivers a payload to every member of a channel, possibly across
// processes
type Fanout interface {
	Fanout(ctx context.Context, channelID string, payload []byte) error
}

// ChannelID builds the hub key for a socket route
func ChannelID(namespace, id string) string {
	return namespace + ":" + id
}

// Gateway upgrades socket requests and relays their frames to the channel
type Gateway struct {
	hub        *Hub
	fanout     Fanout
	sendBuffer int
}

// NewGateway creates a gateway. A nil fanout delivers through the local hub.
func NewGateway(hub *Hub, fanout Fanout, sendBuffer int) *Gateway {
	if fanout == nil {
		fanout = hub
	}
	return &Gateway{
		hub:        hub,
		fanout:     fanout,
		sendBuffer: sendBuffer,
	}
}

// Serve returns a handler that joins the channel named by the route var param
func (g *Gateway) Serve(namespace, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)[param]
		if id == "" {
			http.Error(w, "missing channel id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		channelID := ChannelID(namespace, id)
		client := NewClient(uuid.New().String(), channelID, conn, g.sendBuffer)

		g.hub.Register(client, channelID)
		defer func() {
			g.hub.Deregister(client, channelID)
			client.Close()
		}()

		go client.writePump()

		ctx := r.Context()
		client.readPump(func(frame []byte) {
			g.relay(ctx, channelID, frame)
		})
	}
}

func (g *Gateway) relay(ctx context.Context, channelID string, frame []byte) {
	if err := g.fanout.Fanout(ctx, channelID, frame); err != nil {
		log.Printf("⚠️  Relay publish failed for %s, delivering locally: %v", channelID, err)
		g.hub.Broadcast(channelID, frame)
	}
}
