package nearby

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proximityCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nearby_candidates_scanned",
			Help:    "Located profiles scanned per proximity search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	proximityResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nearby_results_returned",
			Help:    "Users returned per proximity search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)
