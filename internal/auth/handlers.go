// internal/auth/handlers.go

package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

// Handler holds dependencies for auth endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new auth handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers all auth routes with the router
func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *Middleware) {
	auth := router.PathPrefix("/api/v1/auth").Subrouter()

	// Public routes
	auth.HandleFunc("/register", h.Register).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/refresh", h.Refresh).Methods("POST")

	// Protected routes
	auth.Handle("/me", authMiddleware.Authenticate(http.HandlerFunc(h.Me))).Methods("GET")
}

// Register handles account creation
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to create account")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, user.response())
}

// Login handles credential exchange for tokens
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to sign in")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tokens)
}

// Refresh issues a new token pair
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to refresh token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tokens)
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user.response())
}
