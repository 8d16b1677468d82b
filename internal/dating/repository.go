// internal/dating/repository.go

package dating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
)

// SwipeStore is the set of writes that happen while a pair is locked
type SwipeStore interface {
	InsertSwipe(ctx context.Context, swipe *Swipe) error
	HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error)
	// CreateMatch inserts the match for the pair, or returns the existing one
	// with created=false.
	CreateMatch(ctx context.Context, userA, userB string) (*Match, bool, error)
}

// Repository defines swipe and match persistence
type Repository interface {
	// WithPairTx runs fn in one transaction holding the pair's lock
	WithPairTx(ctx context.Context, userA, userB string, fn func(store SwipeStore) error) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	FindMatch(ctx context.Context, userA, userB string) (*Match, error)
	GetUserMatches(ctx context.Context, userID string) ([]*Match, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) WithPairTx(ctx context.Context, userA, userB string, fn func(store SwipeStore) error) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := database.AdvisoryXactLock(ctx, tx, PairKey(userA, userB)); err != nil {
			return err
		}
		return fn(&txStore{tx: tx})
	})
}

func (r *postgresRepository) GetMatch(ctx context.Context, id string) (*Match, error) {
	var m Match
	err := r.db.GetContext(ctx, &m, `SELECT id, user1_id, user2_id, created_at FROM matches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) FindMatch(ctx context.Context, userA, userB string) (*Match, error) {
	return findMatch(ctx, r.db, userA, userB)
}

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID string) ([]*Match, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC`

	var matches []*Match
	if err := r.db.SelectContext(ctx, &matches, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	return matches, nil
}

func findMatch(ctx context.Context, q sqlx.QueryerContext, userA, userB string) (*Match, error) {
	lo, hi := CanonicalPair(userA, userB)

	var m Match
	err := sqlx.GetContext(ctx, q, &m,
		`SELECT id, user1_id, user2_id, created_at FROM matches WHERE user1_id = $1 AND user2_id = $2`,
		lo, hi)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &m, nil
}

type txStore struct {
	tx *sqlx.Tx
}

func (s *txStore) InsertSwipe(ctx context.Context, swipe *Swipe) error {
	query := `
		INSERT INTO swipes (id, swiper_id, swiped_id, is_like)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := s.tx.QueryRowxContext(ctx, query, swipe.ID, swipe.SwiperID, swipe.SwipedID, swipe.IsLike).
		Scan(&swipe.CreatedAt)
	if err != nil {
		switch {
		case database.IsPgError(err, database.UniqueViolation):
			return ErrDuplicateSwipe
		case database.IsPgError(err, database.ForeignKeyViolation):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to insert swipe: %w", err)
	}
	return nil
}

func (s *txStore) HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM swipes
			WHERE swiper_id = $1 AND swiped_id = $2 AND is_like = TRUE
		)`

	var liked bool
	if err := s.tx.GetContext(ctx, &liked, query, swiperID, swipedID); err != nil {
		return false, fmt.Errorf("failed to check reciprocal like: %w", err)
	}
	return liked, nil
}

func (s *txStore) CreateMatch(ctx context.Context, userA, userB string) (*Match, bool, error) {
	lo, hi := CanonicalPair(userA, userB)
	m := &Match{ID: newID(), User1ID: lo, User2ID: hi}

	query := `
		INSERT INTO matches (id, user1_id, user2_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING created_at`

	err := s.tx.QueryRowxContext(ctx, query, m.ID, m.User1ID, m.User2ID).Scan(&m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		existing, err := findMatch(ctx, s.tx, lo, hi)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create match: %w", err)
	}
	return m, true, nil
}
