// Package metrics provides centralized Prometheus metrics registry for the WAR engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecordsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "records_scored_total",
		Help:      "Total number of player-games scored by role",
	}, []string{"role"})
	RecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "records_skipped_total",
		Help:      "Total number of player-games skipped by pipeline phase",
	}, []string{"phase"})
	ConfigurationWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "configuration_warnings_total",
		Help:      "Total number of weighted metrics missing from a season",
	})
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rinkwar",
		Name:      "pipeline_runs_total",
		Help:      "Total number of WAR pipeline runs by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	SeasonPlayersTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rinkwar",
		Name:      "season_players_total",
		Help:      "Number of player rows in the latest season table",
	})
	QualifiedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rinkwar",
		Name:      "qualified_players",
		Help:      "Number of players with enough games in the latest run",
	})
	ReplacementLevel = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rinkwar",
		Name:      "replacement_level",
		Help:      "Replacement level per position and metric from the latest run",
	}, []string{"position", "metric"})
)

// Histogram metrics
var (
	GameImpactScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rinkwar",
		Name:      "game_impact_score",
		Help:      "Distribution of game impact scores by role",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}, []string{"role"})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rinkwar",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of WAR pipeline runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PhaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rinkwar",
		Name:      "pipeline_phase_duration_seconds",
		Help:      "Duration of each WAR pipeline phase in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RecordsScoredTotal)
		registry.MustRegister(RecordsSkippedTotal)
		registry.MustRegister(ConfigurationWarningsTotal)
		registry.MustRegister(PipelineRunsTotal)

		// Register gauge metrics
		registry.MustRegister(SeasonPlayersTotal)
		registry.MustRegister(QualifiedPlayers)
		registry.MustRegister(ReplacementLevel)

		// Register histogram metrics
		registry.MustRegister(GameImpactScore)
		registry.MustRegister(PipelineDuration)
		registry.MustRegister(PhaseDuration)

		// Register ingest metrics
		registry.MustRegister(RecordsNormalizedTotal)
		registry.MustRegister(EARequestsTotal)
		registry.MustRegister(EARequestDuration)
		registry.MustRegister(EACircuitBreakerTripsTotal)
		registry.MustRegister(MatchesFetchedTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScored records one scored player-game.
func RecordScored(role string, score float64) {
	RecordsScoredTotal.WithLabelValues(role).Inc()
	GameImpactScore.WithLabelValues(role).Observe(score)
}

// RecordSkipped records a player-game dropped by a pipeline phase.
func RecordSkipped(phase string) {
	RecordsSkippedTotal.WithLabelValues(phase).Inc()
}

// RecordConfigurationWarning records a weighted metric absent from the season.
func RecordConfigurationWarning() {
	ConfigurationWarningsTotal.Inc()
}

// RecordPipelineRun records a finished pipeline run.
func RecordPipelineRun(outcome string, durationSeconds float64) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(durationSeconds)
}

// RecordPhaseDuration records how long one pipeline phase took.
func RecordPhaseDuration(phase string, durationSeconds float64) {
	PhaseDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// UpdateSeasonPlayers updates the season row gauge.
func UpdateSeasonPlayers(count float64) {
	SeasonPlayersTotal.Set(count)
}

// UpdateQualifiedPlayers updates the qualified player gauge.
func UpdateQualifiedPlayers(count float64) {
	QualifiedPlayers.Set(count)
}

// UpdateReplacementLevel publishes one replacement level.
func UpdateReplacementLevel(position, metric string, value float64) {
	ReplacementLevel.WithLabelValues(position, metric).Set(value)
}
