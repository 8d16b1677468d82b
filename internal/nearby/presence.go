// internal/nearby/presence.go

package nearby

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

// Presence records where a user was last seen
type Presence interface {
	Touch(ctx context.Context, userID string, at geo.Point) error
	LastSeen(ctx context.Context, userID string) (geo.Point, bool, error)
}

// RedisPresence keeps "lat,lng" under user:location:{id} with a TTL
type RedisPresence struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPresence creates a Redis backed presence store
func NewRedisPresence(client *redis.Client, ttl time.Duration) *RedisPresence {
	return &RedisPresence{client: client, ttl: ttl}
}

func presenceKey(userID string) string {
	return "user:location:" + userID
}

// Touch stores the location and restarts its TTL
func (p *RedisPresence) Touch(ctx context.Context, userID string, at geo.Point) error {
	value := strconv.FormatFloat(at.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(at.Lng, 'f', -1, 64)
	if err := p.client.SetEX(ctx, presenceKey(userID), value, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store presence: %w", err)
	}
	return nil
}

// LastSeen returns the stored location, if it has not expired
func (p *RedisPresence) LastSeen(ctx context.Context, userID string) (geo.Point, bool, error) {
	raw, err := p.client.Get(ctx, presenceKey(userID)).Result()
	if err == redis.Nil {
		return geo.Point{}, false, nil
	}
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to read presence: %w", err)
	}

	lat, lng, ok := strings.Cut(raw, ",")
	if !ok {
		return geo.Point{}, false, fmt.Errorf("malformed presence value %q", raw)
	}
	var at geo.Point
	if at.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return geo.Point{}, false, fmt.Errorf("malformed presence latitude: %w", err)
	}
	if at.Lng, err = strconv.ParseFloat(lng, 64); err != nil {
		return geo.Point{}, false, fmt.Errorf("malformed presence longitude: %w", err)
	}
	return at, true, nil
}
