// internal/chat/seed.go

package chat

import (
	"context"
	"errors"
	"log"
)

func strPtr(s string) *string { return &s }

// DefaultRooms are the public rooms a fresh deployment starts with
var DefaultRooms = []CreateRoomRequest{
	{Name: "General", Topic: strPtr("General Discussion"), Description: strPtr("A place for general conversations and introductions")},
	{Name: "Tech Talk", Topic: strPtr("Technology"), Description: strPtr("Discuss the latest tech trends, programming, and gadgets")},
	{Name: "Music", Topic: strPtr("Music & Entertainment"), Description: strPtr("Share your favorite songs, artists, and music recommendations")},
	{Name: "Gaming", Topic: strPtr("Gaming"), Description: strPtr("Talk about games, strategies, and find gaming buddies")},
	{Name: "Movies", Topic: strPtr("Movies & TV Shows"), Description: strPtr("Discuss movies, TV series, and share recommendations")},
	{Name: "Fitness", Topic: strPtr("Health & Fitness"), Description: strPtr("Share workout tips, nutrition advice, and fitness goals")},
	{Name: "Food", Topic: strPtr("Food & Cooking"), Description: strPtr("Share recipes, restaurant reviews, and food adventures")},
	{Name: "Travel", Topic: strPtr("Travel & Adventure"), Description: strPtr("Share travel experiences, tips, and destination recommendations")},
}

// SeedRooms creates every room whose name is not taken yet. Rooms are owned
// by the oldest account; with no accounts nothing is seeded.
func (s *service) SeedRooms(ctx context.Context, rooms []CreateRoomRequest) (int, error) {
	owner, ok, err := s.repo.OldestUserID(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.Println("⚠️  No users yet, skipping chat room seeding")
		return 0, nil
	}

	created := 0
	for i := range rooms {
		room, err := s.CreateRoom(ctx, owner, &rooms[i])
		if errors.Is(err, ErrRoomNameTaken) {
			continue
		}
		if err != nil {
			return created, err
		}
		log.Printf("   - Seeded chat room %q (%s)", room.Name, room.ID)
		created++
	}
	return created, nil
}
