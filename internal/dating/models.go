// internal/dating/models.go

package dating

import (
	"time"
)

// Swipe is a directed like or pass decision
type Swipe struct {
	ID        string    `json:"id" db:"id"`
	SwiperID  string    `json:"swiper_id" db:"swiper_id"`
	SwipedID  string    `json:"swiped_id" db:"swiped_id"`
	IsLike    bool      `json:"is_like" db:"is_like"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Match is an unordered pair of users who liked each other.
// User1ID is always the smaller id.
type Match struct {
	ID        string    `json:"id" db:"id"`
	User1ID   string    `json:"user1_id" db:"user1_id"`
	User2ID   string    `json:"user2_id" db:"user2_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Other returns the participant that is not userID
func (m *Match) Other(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// HasParticipant reports whether userID is one side of the match
func (m *Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// SwipeResult is the outcome of RecordSwipe
type SwipeResult struct {
	Swipe   *Swipe
	Created bool
	MatchID string
}
