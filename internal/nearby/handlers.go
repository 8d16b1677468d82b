// internal/nearby/handlers.go

package nearby

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

// Handler handles nearby requests
type Handler struct {
	service Service
}

// NewHandler creates a new nearby handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// UpdateLocation handles POST /nearby/location
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req LocationUpdate
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	at := geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}
	if err := h.service.UpdateLocation(r.Context(), userID, at); err != nil {
		utils.RespondWithServiceError(w, err, "Failed to update location")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Location updated")
}

// FindNearbyUsers handles GET /nearby/users?radius_km=N
func (h *Handler) FindNearbyUsers(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	radius, ok := utils.QueryFloat(r, "radius_km", 0)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidRadius.Error())
		return
	}

	users, err := h.service.FindNearbyUsers(r.Context(), userID, radius)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to find nearby users")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// ActiveChat handles GET /nearby/chat
func (h *Handler) ActiveChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.service.ActiveChat(r.Context())
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get nearby chat")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, chat)
}

// SendMessage handles POST /nearby/chat/{chat_id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SendMessageRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, mux.Vars(r)["chat_id"], req.Message)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msg)
}

// ListMessages handles GET /nearby/chat/{chat_id}/messages?limit=N
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, ok := utils.QueryInt(r, "limit", 0)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), mux.Vars(r)["chat_id"], limit)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}
