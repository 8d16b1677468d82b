// internal/nearby/service.go

package nearby

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

var (
	ErrLocationUnset = utils.NewError(utils.ErrPrecondition, "Please update your location first")
	ErrChatNotFound  = utils.NewError(utils.ErrNotFound, "Chat not found")
	ErrChatExpired   = utils.NewError(utils.ErrPrecondition, "Chat has expired")
)

// ProfileStore is the part of the profile service nearby depends on
type ProfileStore interface {
	CandidateSource
	GetMine(ctx context.Context, userID string) (*profile.Profile, error)
	UpdateLocation(ctx context.Context, userID string, at geo.Point) error
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Config holds nearby settings
type Config struct {
	DefaultRadiusKM float64
	ChatTTL         time.Duration
	HistoryLimit    int
}

// Service defines nearby business logic
type Service interface {
	UpdateLocation(ctx context.Context, userID string, at geo.Point) error
	FindNearbyUsers(ctx context.Context, userID string, radiusKM float64) ([]*User, error)
	ActiveChat(ctx context.Context) (*Chat, error)
	SendMessage(ctx context.Context, userID, chatID, text string) (*ChatMessage, error)
	ListMessages(ctx context.Context, chatID string, limit int) ([]*ChatMessage, error)
}

type service struct {
	repo     Repository
	profiles ProfileStore
	finder   *Finder
	presence Presence
	config   Config
	now      func() time.Time
}

// NewService creates a new nearby service. presence may be nil.
func NewService(repo Repository, profiles ProfileStore, presence Presence, config Config) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		finder:   NewFinder(profiles),
		presence: presence,
		config:   config,
		now:      time.Now,
	}
}

// UpdateLocation persists the location, then refreshes presence on a best effort basis
func (s *service) UpdateLocation(ctx context.Context, userID string, at geo.Point) error {
	if err := s.profiles.UpdateLocation(ctx, userID, at); err != nil {
		return err
	}

	if s.presence != nil {
		if err := s.presence.Touch(ctx, userID, at); err != nil {
			log.Printf("⚠️  Presence update failed for user %s: %v", userID, err)
		}
	}
	return nil
}

func (s *service) FindNearbyUsers(ctx context.Context, userID string, radiusKM float64) ([]*User, error) {
	if radiusKM == 0 {
		radiusKM = s.config.DefaultRadiusKM
	}

	center, err := s.center(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.finder.FindNearby(ctx, center, radiusKM, userID)
}

// center is the stored profile location, or the last presence ping when the
// profile has none
func (s *service) center(ctx context.Context, userID string) (geo.Point, error) {
	mine, err := s.profiles.GetMine(ctx, userID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return geo.Point{}, err
	}
	if mine != nil {
		if at, ok := mine.Location(); ok {
			return at, nil
		}
	}

	if s.presence != nil {
		at, ok, err := s.presence.LastSeen(ctx, userID)
		if err != nil {
			log.Printf("⚠️  Presence lookup failed for user %s: %v", userID, err)
		} else if ok {
			return at, nil
		}
	}
	return geo.Point{}, ErrLocationUnset
}

func (s *service) ActiveChat(ctx context.Context) (*Chat, error) {
	return s.repo.ActiveChat(ctx, s.now().UTC(), s.config.ChatTTL)
}

func (s *service) getChat(ctx context.Context, chatID string) (*Chat, error) {
	if _, err := uuid.Parse(chatID); err != nil {
		return nil, ErrChatNotFound
	}
	return s.repo.GetChat(ctx, chatID)
}

func (s *service) SendMessage(ctx context.Context, userID, chatID, text string) (*ChatMessage, error) {
	chat, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.ExpiresAt.Before(s.now()) {
		return nil, ErrChatExpired
	}

	name, err := s.profiles.DisplayName(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &ChatMessage{
		ID:         uuid.New().String(),
		ChatID:     chat.ID,
		SenderID:   userID,
		SenderName: name,
		Message:    text,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *service) ListMessages(ctx context.Context, chatID string, limit int) ([]*ChatMessage, error) {
	if _, err := s.getChat(ctx, chatID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.config.HistoryLimit
	}
	return s.repo.ListMessages(ctx, chatID, limit)
}
