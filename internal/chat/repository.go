// internal/chat/repository.go

package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
)

// Repository defines match chat and room persistence
type Repository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, matchID string) ([]*Message, error)

	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	RoomNameExists(ctx context.Context, name string) (bool, error)
	ListRooms(ctx context.Context) ([]*Room, error)
	CreateRoomMessage(ctx context.Context, msg *RoomMessage) error
	// ListRoomMessages returns the latest limit messages, oldest first
	ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*RoomMessage, error)

	// OldestUserID returns the first registered account, if any
	OldestUserID(ctx context.Context) (string, bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO chat_messages (id, match_id, sender_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.MatchID, msg.SenderID, msg.Message).Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, matchID string) ([]*Message, error) {
	query := `
		SELECT id, match_id, sender_id, message, created_at
		FROM chat_messages
		WHERE match_id = $1
		ORDER BY created_at ASC`

	messages := []*Message{}
	if err := r.db.SelectContext(ctx, &messages, query, matchID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO chat_rooms (id, name, topic, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query, room.ID, room.Name, room.Topic, room.Description, room.CreatedBy).
		Scan(&room.CreatedAt)
	if err != nil {
		if database.IsPgError(err, database.UniqueViolation) {
			return ErrRoomNameTaken
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `SELECT id, name, topic, description, created_by, created_at FROM chat_rooms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (r *postgresRepository) RoomNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM chat_rooms WHERE name = $1)`, name); err != nil {
		return false, fmt.Errorf("failed to check room name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListRooms(ctx context.Context) ([]*Room, error) {
	rooms := []*Room{}
	err := r.db.SelectContext(ctx, &rooms, `SELECT id, name, topic, description, created_by, created_at FROM chat_rooms ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *postgresRepository) CreateRoomMessage(ctx context.Context, msg *RoomMessage) error {
	query := `
		INSERT INTO chat_room_messages (id, room_id, sender_id, sender_name, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.RoomID, msg.SenderID, msg.SenderName, msg.Message).
		Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room message: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*RoomMessage, error) {
	query := `
		SELECT id, room_id, sender_id, sender_name, message, created_at
		FROM chat_room_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	messages := []*RoomMessage{}
	if err := r.db.SelectContext(ctx, &messages, query, roomID, limit); err != nil {
		return nil, fmt.Errorf("failed to list room messages: %w", err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func (r *postgresRepository) OldestUserID(ctx context.Context) (string, bool, error) {
	var id string
	err := r.db.GetContext(ctx, &id, `SELECT id FROM users ORDER BY created_at ASC, id ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to find a room owner: %w", err)
	}
	return id, true, nil
}
