// internal/common/database/migrations.go

package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order at boot. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		refresh_token VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		age INTEGER NOT NULL,
		bio TEXT,
		gender VARCHAR(50) NOT NULL,
		gender_preference VARCHAR(50) NOT NULL,
		photos TEXT[] NOT NULL DEFAULT '{}',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		max_distance_km INTEGER NOT NULL DEFAULT 50,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		CONSTRAINT profiles_latitude_range CHECK (latitude IS NULL OR latitude BETWEEN -90 AND 90),
		CONSTRAINT profiles_longitude_range CHECK (longitude IS NULL OR longitude BETWEEN -180 AND 180)
	)`,

	`CREATE TABLE IF NOT EXISTS swipes (
		id UUID PRIMARY KEY,
		swiper_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		swiped_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		is_like BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT swipes_pair_unique UNIQUE (swiper_id, swiped_id),
		CONSTRAINT swipes_not_self CHECK (swiper_id <> swiped_id)
	)`,

	// user1_id < user2_id makes the unique constraint order independent
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		user1_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user2_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT matches_pair_unique UNIQUE (user1_id, user2_id),
		CONSTRAINT matches_pair_ordered CHECK (user1_id < user2_id)
	)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id UUID PRIMARY KEY,
		match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS chat_rooms (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		topic VARCHAR(255),
		description TEXT,
		created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS chat_room_messages (
		id UUID PRIMARY KEY,
		room_id UUID NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sender_name VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS nearby_chats (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS nearby_chat_messages (
		id UUID PRIMARY KEY,
		chat_id UUID NOT NULL REFERENCES nearby_chats(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sender_name VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_active_located ON profiles(is_active) WHERE latitude IS NOT NULL AND longitude IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_swipes_swiped ON swipes(swiped_id, swiper_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_match ON chat_messages(match_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_room_messages_room ON chat_room_messages(room_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_nearby_chats_expires ON nearby_chats(expires_at, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_nearby_messages_chat ON nearby_chat_messages(chat_id, created_at DESC)`,
}

// RunMigrations creates every table and index the service needs
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
			log.Printf("   - Migration %d skipped (already exists)", i+1)
		}
	}
	return nil
}
