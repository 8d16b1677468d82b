// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

// Repository defines profile persistence
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	Update(ctx context.Context, p *Profile) error
	UpdateLocation(ctx context.Context, userID string, at geo.Point) error
	AppendPhoto(ctx context.Context, userID, url string) (*Profile, error)
	ListLocated(ctx context.Context, excludeUserID string) ([]*Profile, error)
	Discover(ctx context.Context, userID, genderPreference string, limit int) ([]*Profile, error)
	DisplayName(ctx context.Context, userID string) (string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_id, name, age, bio, gender, gender_preference,
			photos, latitude, longitude, max_distance_km, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.db.QueryRowxContext(
		ctx, query,
		p.ID, p.UserID, p.Name, p.Age, p.Bio, p.Gender, p.GenderPreference,
		p.Photos, p.Latitude, p.Longitude, p.MaxDistanceKM, p.IsActive,
	).Scan(&p.CreatedAt)
	if err != nil {
		if database.IsPgError(err, database.UniqueViolation) {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var profiles []*Profile
	err := r.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, age = $3, bio = $4, gender = $5, gender_preference = $6,
		    photos = $7, latitude = $8, longitude = $9, max_distance_km = $10,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.Name, p.Age, p.Bio, p.Gender, p.GenderPreference,
		p.Photos, p.Latitude, p.Longitude, p.MaxDistanceKM,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateLocation(ctx context.Context, userID string, at geo.Point) error {
	query := `
		UPDATE profiles
		SET latitude = $2, longitude = $3, updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, at.Lat, at.Lng)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) AppendPhoto(ctx context.Context, userID, url string) (*Profile, error) {
	query := `
		UPDATE profiles
		SET photos = array_append(photos, $2), updated_at = NOW()
		WHERE user_id = $1
		RETURNING *`

	var p Profile
	err := r.db.QueryRowxContext(ctx, query, userID, url).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append photo: %w", err)
	}
	return &p, nil
}

// ListLocated returns every active profile with a location, except excludeUserID
func (r *postgresRepository) ListLocated(ctx context.Context, excludeUserID string) ([]*Profile, error) {
	query := `
		SELECT * FROM profiles
		WHERE user_id <> $1
		  AND is_active = TRUE
		  AND latitude IS NOT NULL
		  AND longitude IS NOT NULL`

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, excludeUserID); err != nil {
		return nil, fmt.Errorf("failed to list located profiles: %w", err)
	}
	return profiles, nil
}

func (r *postgresRepository) Discover(ctx context.Context, userID, genderPreference string, limit int) ([]*Profile, error) {
	query := `
		SELECT * FROM profiles
		WHERE user_id <> $1
		  AND is_active = TRUE
		  AND ($2 = 'all' OR gender = $2)
		LIMIT $3`

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, userID, genderPreference, limit); err != nil {
		return nil, fmt.Errorf("failed to discover profiles: %w", err)
	}
	return profiles, nil
}

// DisplayName is the profile name, falling back to the account email
func (r *postgresRepository) DisplayName(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT COALESCE(p.name, u.email)
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`

	var name string
	err := r.db.GetContext(ctx, &name, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve display name: %w", err)
	}
	return name, nil
}
