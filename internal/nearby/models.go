// internal/nearby/models.go

package nearby

import (
	"time"

	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

// User is one proximity search hit
type User struct {
	UserID     string           `json:"user_id"`
	Profile    *profile.Profile `json:"profile"`
	DistanceKM float64          `json:"distance_km"`
}

// Chat is the shared, expiring chat for people around each other
type Chat struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// ChatMessage is a message posted to a nearby chat
type ChatMessage struct {
	ID         string    `json:"id" db:"id"`
	ChatID     string    `json:"chat_id" db:"chat_id"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	SenderName string    `json:"sender_name" db:"sender_name"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// LocationUpdate is the body of POST /nearby/location
type LocationUpdate struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// SendMessageRequest is the body of POST /nearby/chat/{chat_id}/messages
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

func chatName(now time.Time) string {
	return "Nearby Chat - " + now.UTC().Format("2006-01-02")
}
