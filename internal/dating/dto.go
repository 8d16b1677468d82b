// internal/dating/dto.go

package dating

import (
	"time"

	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

// SwipeRequest is the body of POST /swipe
type SwipeRequest struct {
	SwipedID string `json:"swiped_id" validate:"required,uuid"`
	IsLike   *bool  `json:"is_like" validate:"required"`
}

// SwipeResponse is returned by POST /swipe
type SwipeResponse struct {
	Swipe   *Swipe  `json:"swipe"`
	IsMatch bool    `json:"is_match"`
	MatchID *string `json:"match_id"`
}

// MatchResponse is one entry of GET /swipe/matches
type MatchResponse struct {
	MatchID   string           `json:"match_id"`
	UserID    string           `json:"user_id"`
	Profile   *profile.Profile `json:"profile"`
	CreatedAt time.Time        `json:"created_at"`
}

func newSwipeResponse(res *SwipeResult) *SwipeResponse {
	resp := &SwipeResponse{Swipe: res.Swipe, IsMatch: res.Created}
	if res.Created {
		id := res.MatchID
		resp.MatchID = &id
	}
	return resp
}
