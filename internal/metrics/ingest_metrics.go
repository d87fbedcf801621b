package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest counter vectors
var (
	RecordsNormalizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "records_normalized_total",
		Help:      "Total number of raw player-game records by normalization status",
	}, []string{"status"})

	EARequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "ea_requests_total",
		Help:      "Total number of EA clubs API requests by status",
	}, []string{"status"})

	EACircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "ea_circuit_breaker_trips_total",
		Help:      "Total number of EA client circuit breaker trips",
	})

	MatchesFetchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "matches_fetched_total",
		Help:      "Total number of matches fetched per club",
	}, []string{"club_id"})
)

// Ingest histograms
var (
	EARequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rinkwar",
		Name:      "ea_request_duration_seconds",
		Help:      "Latency of EA clubs API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordNormalized records the outcome of normalizing one raw record.
func RecordNormalized(status string) {
	RecordsNormalizedTotal.WithLabelValues(status).Inc()
}

// RecordEARequest records an EA API request and its latency.
func RecordEARequest(status string, durationSeconds float64) {
	EARequestsTotal.WithLabelValues(status).Inc()
	EARequestDuration.Observe(durationSeconds)
}

// RecordEACircuitBreakerTrip records a circuit breaker trip.
func RecordEACircuitBreakerTrip() {
	EACircuitBreakerTripsTotal.Inc()
}

// RecordMatchesFetched records how many matches a club request returned.
func RecordMatchesFetched(clubID string, count int) {
	MatchesFetchedTotal.WithLabelValues(clubID).Add(float64(count))
}
