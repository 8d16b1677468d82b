// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/profiles").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.CreateProfile).Methods("POST")
	api.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/me", handler.UpdateMyProfile).Methods("PUT")
	api.HandleFunc("/me/photos", handler.UploadPhoto).Methods("POST")
	api.HandleFunc("/discover", handler.Discover).Methods("GET")
}
