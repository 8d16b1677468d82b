// internal/dating/service.go

package dating

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

var (
	ErrSelfSwipe      = utils.NewError(utils.ErrValidation, "You cannot swipe on yourself")
	ErrInvalidUserID  = utils.NewError(utils.ErrValidation, "swiped_id must be a valid user id")
	ErrDuplicateSwipe = utils.NewError(utils.ErrConflict, "You have already swiped on this user")
	ErrUserNotFound   = utils.NewError(utils.ErrNotFound, "User not found")
	ErrMatchNotFound  = utils.NewError(utils.ErrNotFound, "Match not found")
)

// ProfileLookup resolves profiles for match listings
type ProfileLookup interface {
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*profile.Profile, error)
}

// Service defines swipe and match business logic
type Service interface {
	RecordSwipe(ctx context.Context, swiperID, swipedID string, isLike bool) (*SwipeResult, error)
	GetMatches(ctx context.Context, userID string) ([]*MatchResponse, error)
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	FindMatch(ctx context.Context, userA, userB string) (*Match, error)
}

type service struct {
	repo     Repository
	profiles ProfileLookup
	locks    *PairLocker
}

// NewService creates a new dating service. locks may be nil; when set, swipes
// on the same pair are also serialized inside this process.
func NewService(repo Repository, profiles ProfileLookup, locks *PairLocker) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		locks:    locks,
	}
}

// RecordSwipe stores the swipe and, for a like, creates the match when the
// other user already liked back. Check and create run under the pair lock so
// concurrent reciprocal likes produce one match and one created=true.
func (s *service) RecordSwipe(ctx context.Context, swiperID, swipedID string, isLike bool) (*SwipeResult, error) {
	parsed, err := uuid.Parse(swipedID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	swipedID = parsed.String()

	if swiperID == swipedID {
		return nil, ErrSelfSwipe
	}

	if s.locks != nil {
		unlock := s.locks.Lock(swiperID, swipedID)
		defer unlock()
	}

	result := &SwipeResult{
		Swipe: &Swipe{
			ID:       newID(),
			SwiperID: swiperID,
			SwipedID: swipedID,
			IsLike:   isLike,
		},
	}

	var inserted bool
	err = s.repo.WithPairTx(ctx, swiperID, swipedID, func(store SwipeStore) error {
		if err := store.InsertSwipe(ctx, result.Swipe); err != nil {
			return err
		}
		if !isLike {
			return nil
		}

		liked, err := store.HasLiked(ctx, swipedID, swiperID)
		if err != nil || !liked {
			return err
		}

		match, created, err := store.CreateMatch(ctx, swiperID, swipedID)
		if err != nil {
			return err
		}
		// a concurrent reciprocal swipe got there first; report its match
		if !created {
			matchConflictsAbsorbed.Inc()
		}
		inserted = created
		result.Created = true
		result.MatchID = match.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	countSwipe(isLike)
	if inserted {
		countMatch()
		log.Printf("💘 Match %s created between %s and %s", result.MatchID, swiperID, swipedID)
	}

	return result, nil
}

func (s *service) GetMatches(ctx context.Context, userID string) ([]*MatchResponse, error) {
	matches, err := s.repo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, err
	}

	others := make([]string, len(matches))
	for i, m := range matches {
		others[i] = m.Other(userID)
	}

	profiles, err := s.profiles.GetByUserIDs(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("failed to load match profiles: %w", err)
	}

	out := make([]*MatchResponse, len(matches))
	for i, m := range matches {
		out[i] = &MatchResponse{
			MatchID:   m.ID,
			UserID:    others[i],
			Profile:   profiles[others[i]],
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (s *service) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	if _, err := uuid.Parse(matchID); err != nil {
		return nil, ErrMatchNotFound
	}
	return s.repo.GetMatch(ctx, matchID)
}

func (s *service) FindMatch(ctx context.Context, userA, userB string) (*Match, error) {
	return s.repo.FindMatch(ctx, userA, userB)
}

func newID() string {
	return uuid.New().String()
}
