// internal/nearby/repository.go

package nearby

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
)

// chatLockKey serializes nearby chat creation across processes
const chatLockKey = "nearby-chat"

// Repository defines nearby chat persistence
type Repository interface {
	// ActiveChat returns the newest chat still open at now, creating one that
	// expires at now+ttl when there is none.
	ActiveChat(ctx context.Context, now time.Time, ttl time.Duration) (*Chat, error)
	GetChat(ctx context.Context, id string) (*Chat, error)
	CreateMessage(ctx context.Context, msg *ChatMessage) error
	// ListMessages returns the latest limit messages, oldest first
	ListMessages(ctx context.Context, chatID string, limit int) ([]*ChatMessage, error)
	// PurgeExpired deletes chats that expired before cutoff, messages included
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ActiveChat(ctx context.Context, now time.Time, ttl time.Duration) (*Chat, error) {
	var chat Chat

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := database.AdvisoryXactLock(ctx, tx, chatLockKey); err != nil {
			return err
		}

		query := `
			SELECT id, name, created_at, expires_at
			FROM nearby_chats
			WHERE expires_at > $1
			ORDER BY created_at DESC
			LIMIT 1`

		err := tx.GetContext(ctx, &chat, query, now)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to find active nearby chat: %w", err)
		}

		chat = Chat{
			ID:        uuid.New().String(),
			Name:      chatName(now),
			ExpiresAt: now.Add(ttl),
		}
		insert := `
			INSERT INTO nearby_chats (id, name, expires_at)
			VALUES ($1, $2, $3)
			RETURNING created_at`
		if err := tx.QueryRowxContext(ctx, insert, chat.ID, chat.Name, chat.ExpiresAt).Scan(&chat.CreatedAt); err != nil {
			return fmt.Errorf("failed to create nearby chat: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *postgresRepository) GetChat(ctx context.Context, id string) (*Chat, error) {
	var chat Chat
	err := r.db.GetContext(ctx, &chat, `SELECT id, name, created_at, expires_at FROM nearby_chats WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby chat: %w", err)
	}
	return &chat, nil
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *ChatMessage) error {
	query := `
		INSERT INTO nearby_chat_messages (id, chat_id, sender_id, sender_name, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.ChatID, msg.SenderID, msg.SenderName, msg.Message).
		Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create nearby message: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*ChatMessage, error) {
	query := `
		SELECT id, chat_id, sender_id, sender_name, message, created_at
		FROM nearby_chat_messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	messages := []*ChatMessage{}
	if err := r.db.SelectContext(ctx, &messages, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to list nearby messages: %w", err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func (r *postgresRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM nearby_chats WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge nearby chats: %w", err)
	}
	return result.RowsAffected()
}
