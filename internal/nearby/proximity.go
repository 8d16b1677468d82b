// internal/nearby/proximity.go

package nearby

import (
	"context"
	"math"
	"sort"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

var ErrInvalidRadius = utils.NewError(utils.ErrValidation, "radius_km must be a positive number")

// CandidateSource lists active profiles that have a location
type CandidateSource interface {
	ListLocated(ctx context.Context, excludeUserID string) ([]*profile.Profile, error)
}

// Finder runs proximity searches over a CandidateSource
type Finder struct {
	source CandidateSource
}

// NewFinder creates a new proximity finder
func NewFinder(source CandidateSource) *Finder {
	return &Finder{source: source}
}

type candidate struct {
	profile  *profile.Profile
	distance float64
}

// FindNearby returns every candidate within radiusKM of center, closest first.
// Equal distances are ordered by user id. Distances are rounded to 2 decimals
// after filtering and sorting.
func (f *Finder) FindNearby(ctx context.Context, center geo.Point, radiusKM float64, excludeUserID string) ([]*User, error) {
	if !(radiusKM > 0) || math.IsInf(radiusKM, 1) {
		return nil, ErrInvalidRadius
	}

	profiles, err := f.source.ListLocated(ctx, excludeUserID)
	if err != nil {
		return nil, err
	}
	proximityCandidates.Observe(float64(len(profiles)))

	hits := make([]candidate, 0, len(profiles))
	for _, p := range profiles {
		if p.UserID == excludeUserID {
			continue
		}
		at, ok := p.Location()
		if !ok {
			continue
		}
		if d := geo.Distance(center, at); d <= radiusKM {
			hits = append(hits, candidate{profile: p, distance: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].profile.UserID < hits[j].profile.UserID
	})

	proximityResults.Observe(float64(len(hits)))

	out := make([]*User, len(hits))
	for i, h := range hits {
		out[i] = &User{
			UserID:     h.profile.UserID,
			Profile:    h.profile,
			DistanceKM: geo.Round2(h.distance),
		}
	}
	return out, nil
}
