// internal/profile/models.go

package profile

import (
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/imadgeboyega/xoxo-backend/internal/geo"
)

// DefaultMaxDistanceKM is used when a profile is created without one
const DefaultMaxDistanceKM = 50

// Profile is the dating profile attached to a user
type Profile struct {
	ID               string         `json:"id" db:"id"`
	UserID           string         `json:"user_id" db:"user_id"`
	Name             string         `json:"name" db:"name"`
	Age              int            `json:"age" db:"age"`
	Bio              *string        `json:"bio" db:"bio"`
	Gender           string         `json:"gender" db:"gender"`
	GenderPreference string         `json:"gender_preference" db:"gender_preference"`
	Photos           pq.StringArray `json:"photos" db:"photos"`
	Latitude         *float64       `json:"latitude" db:"latitude"`
	Longitude        *float64       `json:"longitude" db:"longitude"`
	MaxDistanceKM    int            `json:"max_distance_km" db:"max_distance_km"`
	IsActive         bool           `json:"is_active" db:"is_active"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty" db:"updated_at"`
}

// Location returns the profile coordinate, if one has been set
func (p *Profile) Location() (geo.Point, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *p.Latitude, Lng: *p.Longitude}, true
}

// CreateProfileRequest is the body of POST /profiles
type CreateProfileRequest struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Age              int     `json:"age" validate:"required,gte=18,lte=120"`
	Bio              *string `json:"bio"`
	Gender           string  `json:"gender" validate:"required,max=50"`
	GenderPreference string  `json:"gender_preference" validate:"required,max=50"`
	MaxDistanceKM    *int    `json:"max_distance_km" validate:"omitempty,gte=1"`
}

// ImageUpdate is one entry of UpdateProfileRequest.Images
type ImageUpdate struct {
	URL     string  `json:"url"`
	IsMain  bool    `json:"isMain"`
	Order   int     `json:"order"`
	Caption *string `json:"caption"`
}

// UpdateProfileRequest is the body of PUT /profiles/me. Every field is
// optional; a few accept camelCase as well as snake_case.
type UpdateProfileRequest struct {
	Name                  *string       `json:"name" validate:"omitempty,max=255"`
	Age                   *int          `json:"age" validate:"omitempty,gte=18,lte=120"`
	Bio                   *string       `json:"bio"`
	Gender                *string       `json:"gender" validate:"omitempty,max=50"`
	GenderPreference      *string       `json:"gender_preference" validate:"omitempty,max=50"`
	GenderPreferenceCamel *string       `json:"genderPreference" validate:"omitempty,max=50"`
	MaxDistanceKM         *int          `json:"max_distance_km" validate:"omitempty,gte=1"`
	MaxDistanceKMCamel    *int          `json:"maxDistanceKm" validate:"omitempty,gte=1"`
	Latitude              *float64      `json:"latitude" validate:"omitempty,latitude"`
	Longitude             *float64      `json:"longitude" validate:"omitempty,longitude"`
	Images                []ImageUpdate `json:"images"`
}

func (r *UpdateProfileRequest) genderPreference() *string {
	if r.GenderPreference != nil {
		return r.GenderPreference
	}
	return r.GenderPreferenceCamel
}

func (r *UpdateProfileRequest) maxDistanceKM() *int {
	if r.MaxDistanceKM != nil {
		return r.MaxDistanceKM
	}
	return r.MaxDistanceKMCamel
}

// orderedPhotoURLs returns image URLs with the main image first, then by order.
// Entries without a URL are skipped.
func orderedPhotoURLs(images []ImageUpdate) []string {
	kept := make([]ImageUpdate, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			kept = append(kept, img)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].IsMain != kept[j].IsMain {
			return kept[i].IsMain
		}
		return kept[i].Order < kept[j].Order
	})

	urls := make([]string, len(kept))
	for i, img := range kept {
		urls[i] = img.URL
	}
	return urls
}
