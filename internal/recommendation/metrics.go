package recommendation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interactionsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_interactions_tracked_total",
			Help: "Total number of user-event interactions tracked",
		},
		[]string{"kind"},
	)

	trackingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_tracking_failures_total",
			Help: "Total number of interaction tracking attempts swallowed on storage errors",
		},
	)

	preferenceRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_preference_recomputes_total",
			Help: "Total number of successful preference vector rebuilds",
		},
	)

	preferenceRecomputeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_preference_recompute_failures_total",
			Help: "Total number of preference rebuilds dropped on storage errors",
		},
	)

	recommendationRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests served",
		},
	)

	recommendationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_scores",
			Help:    "Distribution of hybrid scores of returned recommendations",
			Buckets: prometheus.LinearBuckets(0, 0.2, 11),
		},
	)

	recommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of events returned per recommendation request",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	recommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "recommendation_duration_seconds",
			Help: "Time spent building a recommendation response",
		},
	)
)

func RecordInteraction(kind Kind) {
	interactionsTracked.WithLabelValues(string(kind)).Inc()
}

func RecordTrackingFailure() {
	trackingFailures.Inc()
}

func RecordRecompute() {
	preferenceRecomputes.Inc()
}

func RecordRecomputeFailure() {
	preferenceRecomputeFailures.Inc()
}

func RecordRecommendationRequest() {
	recommendationRequests.Inc()
}

func RecordRecommendationScore(score float64) {
	recommendationScores.Observe(score)
}

func RecordRecommendation(resultCount int, duration time.Duration) {
	recommendationResults.Observe(float64(resultCount))
	recommendationDuration.Observe(duration.Seconds())
}
