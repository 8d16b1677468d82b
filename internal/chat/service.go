// internal/chat/service.go

package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/dating"
)

var (
	ErrNotParticipant = utils.NewError(utils.ErrForbidden, "You are not part of this match")
	ErrRoomNotFound   = utils.NewError(utils.ErrNotFound, "Chat room not found")
	ErrRoomNameTaken  = utils.NewError(utils.ErrConflict, "Chat room with this name already exists")
	ErrEmptyRoomName  = utils.NewError(utils.ErrValidation, "name is required")
)

// MatchLookup resolves a match by id
type MatchLookup interface {
	GetMatch(ctx context.Context, matchID string) (*dating.Match, error)
}

// NameResolver returns the display name of a user
type NameResolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Service defines match chat and room business logic
type Service interface {
	SendMatchMessage(ctx context.Context, userID, matchID, text string) (*Message, error)
	ListMatchMessages(ctx context.Context, userID, matchID string) ([]*Message, error)

	CreateRoom(ctx context.Context, userID string, req *CreateRoomRequest) (*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	SendRoomMessage(ctx context.Context, userID, roomID, text string) (*RoomMessage, error)
	ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*RoomMessage, error)
	SeedRooms(ctx context.Context, rooms []CreateRoomRequest) (int, error)
}

type service struct {
	repo         Repository
	matches      MatchLookup
	names        NameResolver
	historyLimit int
}

// NewService creates a new chat service. historyLimit caps room history
// reads that do not ask for a limit.
func NewService(repo Repository, matches MatchLookup, names NameResolver, historyLimit int) Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &service{
		repo:         repo,
		matches:      matches,
		names:        names,
		historyLimit: historyLimit,
	}
}

// participantMatch loads the match and checks userID is part of it
func (s *service) participantMatch(ctx context.Context, userID, matchID string) (*dating.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return match, nil
}

func (s *service) SendMatchMessage(ctx context.Context, userID, matchID, text string) (*Message, error) {
	match, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:       uuid.New().String(),
		MatchID:  match.ID,
		SenderID: userID,
		Message:  text,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *service) ListMatchMessages(ctx context.Context, userID, matchID string) ([]*Message, error) {
	match, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, match.ID)
}

func (s *service) CreateRoom(ctx context.Context, userID string, req *CreateRoomRequest) (*Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyRoomName
	}

	exists, err := s.repo.RoomNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoomNameTaken
	}

	room := &Room{
		ID:          uuid.New().String(),
		Name:        name,
		Topic:       req.Topic,
		Description: req.Description,
		CreatedBy:   userID,
	}
	// a concurrent create with the same name surfaces from the unique constraint
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) ListRooms(ctx context.Context) ([]*Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *service) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	if _, err := uuid.Parse(roomID); err != nil {
		return nil, ErrRoomNotFound
	}
	return s.repo.GetRoom(ctx, roomID)
}

func (s *service) SendRoomMessage(ctx context.Context, userID, roomID, text string) (*RoomMessage, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	name, err := s.names.DisplayName(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &RoomMessage{
		ID:         uuid.New().String(),
		RoomID:     room.ID,
		SenderID:   userID,
		SenderName: name,
		Message:    text,
	}
	if err := s.repo.CreateRoomMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *service) ListRoomMessages(ctx context.Context, roomID string, limit int) ([]*RoomMessage, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.repo.ListRoomMessages(ctx, roomID, limit)
}

