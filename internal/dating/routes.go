package dating

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/swipe").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.Swipe).Methods("POST")
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
}
