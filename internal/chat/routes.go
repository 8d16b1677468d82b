package chat

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
)

// RegisterRoutes registers match chat and chat room routes. Reading rooms is public.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(fn)
	}

	rooms := router.PathPrefix("/api/v1/chat-rooms").Subrouter()
	rooms.Handle("", protected(handler.CreateRoom)).Methods("POST")
	rooms.HandleFunc("", handler.ListRooms).Methods("GET")
	rooms.HandleFunc("/{room_id}", handler.GetRoom).Methods("GET")
	rooms.Handle("/{room_id}/messages", protected(handler.SendRoomMessage)).Methods("POST")
	rooms.HandleFunc("/{room_id}/messages", handler.ListRoomMessages).Methods("GET")

	// "/api/v1/chat" is a string prefix of "/api/v1/chat-rooms", so rooms go first
	matches := router.PathPrefix("/api/v1/chat").Subrouter()
	matches.Use(authMiddleware.Authenticate)
	matches.HandleFunc("/{match_id}/messages", handler.SendMatchMessage).Methods("POST")
	matches.HandleFunc("/{match_id}/messages", handler.ListMatchMessages).Methods("GET")
}
