// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

// DiscoverLimit caps the discover feed
const DiscoverLimit = 50

var (
	ErrProfileNotFound = utils.NewError(utils.ErrNotFound, "Profile not found")
	ErrProfileExists   = utils.NewError(utils.ErrConflict, "Profile already exists")
	ErrUserNotFound    = utils.NewError(utils.ErrNotFound, "User not found")
	ErrMissingFields   = utils.NewError(utils.ErrValidation, "name, age, gender and gender_preference are required to create a profile")
	ErrEmptyUpload     = utils.NewError(utils.ErrValidation, "file is required")
)

// Service defines profile business logic
type Service interface {
	Create(ctx context.Context, userID string, req *CreateProfileRequest) (*Profile, error)
	GetMine(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error)
	UploadPhoto(ctx context.Context, userID string, upload *PhotoUpload) (*Profile, error)
	Discover(ctx context.Context, userID string) ([]*Profile, error)
	UpdateLocation(ctx context.Context, userID string, at geo.Point) error
	ListLocated(ctx context.Context, excludeUserID string) ([]*Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	DisplayName(ctx context.Context, userID string) (string, error)
}

// PhotoUpload is an image received from a client
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type service struct {
	repo    Repository
	storage Storage
}

// NewService creates a new profile service. storage may be nil, in which
// case photo uploads are refused.
func NewService(repo Repository, storage Storage) Service {
	return &service{
		repo:    repo,
		storage: storage,
	}
}

func (s *service) Create(ctx context.Context, userID string, req *CreateProfileRequest) (*Profile, error) {
	maxDistance := DefaultMaxDistanceKM
	if req.MaxDistanceKM != nil {
		maxDistance = *req.MaxDistanceKM
	}

	p := &Profile{
		ID:               uuid.New().String(),
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		Age:              req.Age,
		Bio:              req.Bio,
		Gender:           req.Gender,
		GenderPreference: req.GenderPreference,
		Photos:           []string{},
		MaxDistanceKM:    maxDistance,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("👤 Profile created for user %s", userID)
	return p, nil
}

func (s *service) GetMine(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Upsert creates the profile when it does not exist yet, otherwise applies
// the fields present in req.
func (s *service) Upsert(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error) {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	if existing == nil {
		if req.Name == nil || req.Age == nil || req.Gender == nil || req.genderPreference() == nil {
			return nil, ErrMissingFields
		}

		p, err := s.Create(ctx, userID, &CreateProfileRequest{
			Name:             *req.Name,
			Age:              *req.Age,
			Bio:              req.Bio,
			Gender:           *req.Gender,
			GenderPreference: *req.genderPreference(),
			MaxDistanceKM:    req.maxDistanceKM(),
		})
		if err != nil {
			return nil, err
		}

		// location and images are not part of creation
		if req.Latitude == nil && req.Longitude == nil && req.Images == nil {
			return p, nil
		}
		existing = p
	}

	applyUpdate(existing, req)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func applyUpdate(p *Profile, req *UpdateProfileRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if pref := req.genderPreference(); pref != nil {
		p.GenderPreference = *pref
	}
	if d := req.maxDistanceKM(); d != nil {
		p.MaxDistanceKM = *d
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.Images != nil {
		p.Photos = orderedPhotoURLs(req.Images)
	}
}

func (s *service) UploadPhoto(ctx context.Context, userID string, upload *PhotoUpload) (*Profile, error) {
	if upload == nil || upload.Body == nil {
		return nil, ErrEmptyUpload
	}
	if s.storage == nil {
		return nil, fmt.Errorf("photo storage is not configured")
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}

	key := photoKey(userID, upload.Filename)
	url, err := s.storage.Put(ctx, key, upload.Body, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	return s.repo.AppendPhoto(ctx, userID, url)
}

// photoKey builds profiles/{user_id}/{uuid}.{ext}
func photoKey(userID, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("profiles/%s/%s.%s", userID, uuid.New().String(), strings.ToLower(ext))
}

func (s *service) Discover(ctx context.Context, userID string) ([]*Profile, error) {
	mine, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pref := mine.GenderPreference
	if pref == "" {
		pref = "all"
	}

	profiles, err := s.repo.Discover(ctx, userID, pref, DiscoverLimit)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*Profile{}
	}
	return profiles, nil
}

func (s *service) UpdateLocation(ctx context.Context, userID string, at geo.Point) error {
	if err := at.Validate(); err != nil {
		return utils.NewError(utils.ErrValidation, err.Error())
	}
	return s.repo.UpdateLocation(ctx, userID, at)
}

func (s *service) ListLocated(ctx context.Context, excludeUserID string) ([]*Profile, error) {
	return s.repo.ListLocated(ctx, excludeUserID)
}

func (s *service) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Profile, error) {
	return s.repo.GetByUserIDs(ctx, userIDs)
}

func (s *service) DisplayName(ctx context.Context, userID string) (string, error) {
	return s.repo.DisplayName(ctx, userID)
}
