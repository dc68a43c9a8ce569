package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_scores",
			Help:    "Distribution of pairwise compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	matchCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_calculations_total",
			Help: "Total number of match calculations",
		},
		[]string{"mode", "source"},
	)
)

// RecordMatchScore observes a computed score
func RecordMatchScore(score int) {
	matchScores.Observe(float64(score))
}

// RecordMatchCalculation counts a calculation by mode and whether it
// came from cache or was computed fresh
func RecordMatchCalculation(mode Mode, source string) {
	matchCalculationsTotal.WithLabelValues(string(mode), source).Inc()
}
