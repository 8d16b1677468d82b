package dating

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_swipes_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"kind"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dating_matches_total",
			Help: "Total number of matches created",
		},
	)

	matchConflictsAbsorbed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dating_match_conflicts_absorbed_total",
			Help: "Match inserts that found the pair already matched",
		},
	)
)

// countSwipe counts a swipe by kind
func countSwipe(isLike bool) {
	kind := "pass"
	if isLike {
		kind = "like"
	}
	swipesTotal.WithLabelValues(kind).Inc()
}

// countMatch increments the match counter
func countMatch() {
	matchesTotal.Inc()
}
