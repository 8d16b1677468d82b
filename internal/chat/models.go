// internal/chat/models.go

package chat

import (
	"time"
)

// DefaultHistoryLimit is used when the service is built without a history limit
const DefaultHistoryLimit = 100

// Message is a message exchanged inside a match
type Message struct {
	ID        string    `json:"id" db:"id"`
	MatchID   string    `json:"match_id" db:"match_id"`
	SenderID  string    `json:"sender_id" db:"sender_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Room is a public topic chat room
type Room struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Topic       *string   `json:"topic" db:"topic"`
	Description *string   `json:"description" db:"description"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RoomMessage is a message posted to a room
type RoomMessage struct {
	ID         string    `json:"id" db:"id"`
	RoomID     string    `json:"room_id" db:"room_id"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	SenderName string    `json:"sender_name" db:"sender_name"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SendMessageRequest is the body of every message POST
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// CreateRoomRequest is the body of POST /chat-rooms
type CreateRoomRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Topic       *string `json:"topic" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}
