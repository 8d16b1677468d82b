// internal/chat/handlers.go

package chat

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

// Handler handles match chat and room requests
type Handler struct {
	service Service
}

// NewHandler creates a new chat handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SendMatchMessage handles POST /chat/{match_id}/messages
func (h *Handler) SendMatchMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SendMessageRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.SendMatchMessage(r.Context(), userID, mux.Vars(r)["match_id"], req.Message)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msg)
}

// ListMatchMessages handles GET /chat/{match_id}/messages
func (h *Handler) ListMatchMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	messages, err := h.service.ListMatchMessages(r.Context(), userID, mux.Vars(r)["match_id"])
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// CreateRoom handles POST /chat-rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateRoomRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	room, err := h.service.CreateRoom(r.Context(), userID, &req)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to create chat room")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, room)
}

// ListRooms handles GET /chat-rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to list chat rooms")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, rooms)
}

// GetRoom handles GET /chat-rooms/{room_id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), mux.Vars(r)["room_id"])
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get chat room")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, room)
}

// SendRoomMessage handles POST /chat-rooms/{room_id}/messages
func (h *Handler) SendRoomMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SendMessageRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.SendRoomMessage(r.Context(), userID, mux.Vars(r)["room_id"], req.Message)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, msg)
}

// ListRoomMessages handles GET /chat-rooms/{room_id}/messages?limit=N
func (h *Handler) ListRoomMessages(w http.ResponseWriter, r *http.Request) {
	limit, ok := utils.QueryInt(r, "limit", 0)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	messages, err := h.service.ListRoomMessages(r.Context(), mux.Vars(r)["room_id"], limit)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}
