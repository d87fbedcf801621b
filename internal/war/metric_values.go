package war

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

type metricFunc func(models.StatRecord) (float64, bool)

func always(f func(models.StatRecord) float64) metricFunc {
	return func(r models.StatRecord) (float64, bool) { return f(r), true }
}

func count(f func(models.StatRecord) int) metricFunc {
	return func(r models.StatRecord) (float64, bool) { return float64(f(r)), true }
}

var metricFuncs = map[string]metricFunc{
	MetricPointsPer60:               always(stats.PointsPer60),
	MetricGoals:                     count(func(r models.StatRecord) int { return r.Goals }),
	MetricAssists:                   count(func(r models.StatRecord) int { return r.Assists }),
	MetricShots:                     count(func(r models.StatRecord) int { return r.Shots }),
	MetricShotAttempts:              count(func(r models.StatRecord) int { return r.ShotAttempts }),
	MetricShotGenerationRate:        always(stats.ShotGenerationRate),
	MetricShotEfficiency:            stats.ShotEfficiency,
	MetricBlockedShots:              count(func(r models.StatRecord) int { return r.BlockedShots }),
	MetricTakeaways:                 count(func(r models.StatRecord) int { return r.Takeaways }),
	MetricHits:                      count(func(r models.StatRecord) int { return r.Hits }),
	MetricInterceptions:             count(func(r models.StatRecord) int { return r.Interceptions }),
	MetricPlusMinus:                 count(func(r models.StatRecord) int { return r.PlusMinus }),
	MetricDefensiveActionsPerMinute: always(stats.DefensiveActionsPerMinute),
	MetricSavePercentage:            stats.SavePercentage,
	MetricGameSavePct:               always(func(r models.StatRecord) float64 { return r.GoalieSavePct }),
	MetricGAA:                       always(func(r models.StatRecord) float64 { return r.GoalsAgainstAverage }),
	MetricGAANormalized:             always(normalizedGAA),
	MetricGoalsSaved: func(r models.StatRecord) (float64, bool) {
		saved, ok := stats.GoalsSaved(r)
		return float64(saved), ok
	},
	MetricBreakawaySaves:       count(func(r models.StatRecord) int { return r.BreakawaySaves }),
	MetricDesperationSaves:     count(func(r models.StatRecord) int { return r.DesperationSaves }),
	MetricPassingPercentage:    stats.PassingPercentage,
	MetricGamePassPct:          always(func(r models.StatRecord) float64 { return r.PassPct }),
	MetricPasses:               count(func(r models.StatRecord) int { return r.Passes }),
	MetricPuckManagementRating: always(stats.PuckManagementRating),
	MetricPenaltiesDrawn:       count(func(r models.StatRecord) int { return r.PenaltiesDrawn }),
	MetricPenaltyDifferential:  count(stats.PenaltyDifferential),
	MetricGoaliePKClearZone:    count(func(r models.StatRecord) int { return r.GoaliePKClearZone }),
	MetricPokeChecks:           count(func(r models.StatRecord) int { return r.PokeChecks }),
}

// MetricValue reads a named valuation metric from a record. ok is false for
// unknown metrics and for derived metrics that are undefined on this record.
func MetricValue(r models.StatRecord, metric string) (float64, bool) {
	f, ok := metricFuncs[metric]
	if !ok {
		return 0, false
	}
	return f(r)
}

// valuationValue is the value used once a metric is known to be present for
// the season: undefined entries count as zero
func valuationValue(r models.StatRecord, metric string) float64 {
	v, ok := MetricValue(r, metric)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// normalizedGAA inverts goals against average onto [0, 1], higher is better
func normalizedGAA(r models.StatRecord) float64 {
	v := 1 - r.GoalsAgainstAverage/6.0
	return math.Max(0, math.Min(1, v))
}
