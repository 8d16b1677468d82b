// internal/messaging/routes.go

package messaging

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

// RegisterRoutes registers the socket channels. Sockets are not authenticated.
func RegisterRoutes(router *mux.Router, gateway *Gateway) {
	ws := router.PathPrefix("/ws").Subrouter()

	ws.HandleFunc("/chat-rooms/{room_id}", gateway.Serve(NamespaceRoom, "room_id")).Methods("GET")
	ws.HandleFunc("/chat/{match_id}", gateway.Serve(NamespaceMatch, "match_id")).Methods("GET")
	ws.HandleFunc("/nearby-chat/{chat_id}", gateway.Serve(NamespaceNearby, "chat_id")).Methods("GET")
}

// RegisterHealthCheck exposes hub occupancy
func RegisterHealthCheck(router *mux.Router, hub *Hub) {
	router.HandleFunc("/health/realtime", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"connections": hub.GetActiveConnections(),
			"channels":    hub.ChannelCount(),
			"timestamp":   time.Now().Unix(),
		})
	}).Methods("GET")
}
