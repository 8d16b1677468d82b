package nearby

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
)

// RegisterRoutes registers nearby routes. Reading chat history is public.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/nearby").Subrouter()

	api.Handle("/location", authMiddleware.Authenticate(http.HandlerFunc(handler.UpdateLocation))).Methods("POST")
	api.Handle("/users", authMiddleware.Authenticate(http.HandlerFunc(handler.FindNearbyUsers))).Methods("GET")
	api.Handle("/chat", authMiddleware.Authenticate(http.HandlerFunc(handler.ActiveChat))).Methods("GET")
	api.Handle("/chat/{chat_id}/messages", authMiddleware.Authenticate(http.HandlerFunc(handler.SendMessage))).Methods("POST")
	api.HandleFunc("/chat/{chat_id}/messages", handler.ListMessages).Methods("GET")
}
