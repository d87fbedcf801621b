// Package war turns scored player-games into season Wins Above Replacement.
//
// A run is a three-pass batch: every record is scored, a replacement table is
// built from the whole season, and each record is then valued against that
// table and aggregated per player. The tables in this file are fixed tuning
// constants and must not change between runs.
package war

import "github.com/yourusername/rinkwar/internal/models"

// Component names one of the three WAR sub-scores
type Component string

const (
	Offensive Component = "offensive"
	Defensive Component = "defensive"
	Teamplay  Component = "teamplay"
)

// Components lists the sub-scores in evaluation order
var Components = []Component{Offensive, Defensive, Teamplay}

// Category splits positions into skaters and goalies
type Category string

const (
	Skater Category = "skater"
	Goalie Category = "goalie"
)

// CategoryOf returns the valuation category of a detailed position
func CategoryOf(pos models.DetailedPosition) Category {
	if pos.IsGoalie() {
		return Goalie
	}
	return Skater
}

// Metric names used in the weight tables
const (
	MetricPointsPer60               = "points_per_60"
	MetricGoals                     = "skgoals"
	MetricAssists                   = "skassists"
	MetricShots                     = "skshots"
	MetricShotAttempts              = "skshotattempts"
	MetricShotGenerationRate        = "shot_generation_rate"
	MetricShotEfficiency            = "shot_efficiency"
	MetricBlockedShots              = "skbs"
	MetricTakeaways                 = "sktakeaways"
	MetricHits                      = "skhits"
	MetricInterceptions             = "skinterceptions"
	MetricPlusMinus                 = "skplusmin"
	MetricDefensiveActionsPerMinute = "defensive_actions_per_minute"
	MetricSavePercentage            = "save_percentage"
	MetricGameSavePct               = "glsavepct"
	MetricGAA                       = "glgaa"
	MetricGAANormalized             = "glgaa_normalized"
	MetricGoalsSaved                = "goals_saved"
	MetricBreakawaySaves            = "glbrksaves"
	MetricDesperationSaves          = "gldsaves"
	MetricPassingPercentage         = "passing_percentage"
	MetricGamePassPct               = "skpasspct"
	MetricPasses                    = "skpasses"
	MetricPuckManagementRating      = "puck_management_rating"
	MetricPenaltiesDrawn            = "skpenaltiesdrawn"
	MetricPenaltyDifferential       = "penalty_differential"
	MetricGoaliePKClearZone         = "glpkclearzone"
	MetricPokeChecks                = "glpokechecks"
)

// metricLists holds the metrics whose replacement levels are estimated,
// per category and component. Goalies have no offensive metrics.
var metricLists = map[Category]map[Component][]string{
	Skater: {
		Offensive: {
			MetricPointsPer60,
			MetricGoals,
			MetricAssists,
			MetricShots,
			MetricShotAttempts,
			MetricShotGenerationRate,
			MetricShotEfficiency,
		},
		Defensive: {
			MetricBlockedShots,
			MetricTakeaways,
			MetricHits,
			MetricInterceptions,
			MetricPlusMinus,
			MetricDefensiveActionsPerMinute,
		},
		Teamplay: {
			MetricPassingPercentage,
			MetricGamePassPct,
			MetricPasses,
			MetricPuckManagementRating,
			MetricPenaltiesDrawn,
			MetricPenaltyDifferential,
		},
	},
	Goalie: {
		Offensive: {},
		Defensive: {
			MetricSavePercentage,
			MetricGameSavePct,
			MetricGAA,
			MetricGoalsSaved,
			MetricBreakawaySaves,
			MetricDesperationSaves,
		},
		Teamplay: {
			MetricGoaliePKClearZone,
			MetricPokeChecks,
		},
	},
}

// MetricWeight is one entry of a component weight table
type MetricWeight struct {
	Metric string
	Weight float64
}

// metricWeights are the relative importances inside each component. A
// component without an entry weighs its metric list equally.
var metricWeights = map[Category]map[Component][]MetricWeight{
	Skater: {
		Offensive: {
			{MetricPointsPer60, 0.30},
			{MetricGoals, 0.25},
			{MetricAssists, 0.15},
			{MetricShots, 0.10},
			{MetricShotAttempts, 0.05},
			{MetricShotGenerationRate, 0.10},
			{MetricShotEfficiency, 0.05},
		},
		Defensive: {
			{MetricBlockedShots, 0.20},
			{MetricTakeaways, 0.25},
			{MetricHits, 0.15},
			{MetricInterceptions, 0.20},
			{MetricPlusMinus, 0.10},
			{MetricDefensiveActionsPerMinute, 0.10},
		},
		Teamplay: {
			{MetricPassingPercentage, 0.20},
			{MetricGamePassPct, 0.20},
			{MetricPasses, 0.15},
			{MetricPuckManagementRating, 0.25},
			{MetricPenaltiesDrawn, 0.10},
			{MetricPenaltyDifferential, 0.10},
		},
	},
	Goalie: {
		Defensive: {
			{MetricSavePercentage, 0.35},
			{MetricGameSavePct, 0.20},
			{MetricGAANormalized, 0.20},
			{MetricGoalsSaved, 0.15},
			{MetricBreakawaySaves, 0.05},
			{MetricDesperationSaves, 0.05},
		},
	},
}

// scalingFactors bring metrics with different ranges onto a comparable scale
var scalingFactors = map[string]float64{
	MetricPointsPer60:               1.0,
	MetricGoals:                     1.5,
	MetricAssists:                   1.0,
	MetricShots:                     0.2,
	MetricShotAttempts:              0.15,
	MetricShotGenerationRate:        2.0,
	MetricShotEfficiency:            3.0,
	MetricBlockedShots:              0.3,
	MetricTakeaways:                 0.4,
	MetricHits:                      0.2,
	MetricInterceptions:             0.3,
	MetricPlusMinus:                 0.5,
	MetricDefensiveActionsPerMinute: 2.0,
	MetricSavePercentage:            10.0,
	MetricGameSavePct:               8.0,
	MetricGAANormalized:             6.0,
	MetricGoalsSaved:                0.5,
	MetricBreakawaySaves:            1.0,
	MetricDesperationSaves:          0.8,
	MetricPassingPercentage:         5.0,
	MetricGamePassPct:               5.0,
	MetricPasses:                    0.1,
	MetricPuckManagementRating:      1.0,
	MetricPenaltiesDrawn:            0.5,
	MetricPenaltyDifferential:       0.5,
}

const defaultScaling = 1.0

// ScalingFactor returns the range-equalizing factor of a metric
func ScalingFactor(metric string) float64 {
	if f, ok := scalingFactors[metric]; ok {
		return f
	}
	return defaultScaling
}

// PositionWeights splits a position's value across the three components
type PositionWeights struct {
	Offensive float64
	Defensive float64
	Teamplay  float64
}

// Of returns the weight of one component
func (w PositionWeights) Of(c Component) float64 {
	switch c {
	case Offensive:
		return w.Offensive
	case Defensive:
		return w.Defensive
	case Teamplay:
		return w.Teamplay
	default:
		return 0
	}
}

var positionWeights = map[models.DetailedPosition]PositionWeights{
	models.DetailedCenter:       {Offensive: 0.45, Defensive: 0.35, Teamplay: 0.20},
	models.DetailedLeftWing:     {Offensive: 0.55, Defensive: 0.25, Teamplay: 0.20},
	models.DetailedRightWing:    {Offensive: 0.55, Defensive: 0.25, Teamplay: 0.20},
	models.DetailedLeftDefense:  {Offensive: 0.25, Defensive: 0.55, Teamplay: 0.20},
	models.DetailedRightDefense: {Offensive: 0.25, Defensive: 0.55, Teamplay: 0.20},
	models.DetailedGoalie:       {Offensive: 0.0, Defensive: 0.85, Teamplay: 0.15},
}

// WeightsFor returns the component weights of a position
func WeightsFor(pos models.DetailedPosition) (PositionWeights, bool) {
	w, ok := positionWeights[pos]
	return w, ok
}

// Win conversion: adjusted WAR points per team win
const (
	SkaterWinConversion = 6.0
	GoalieWinConversion = 20.0
)

// GoalieDefensiveDampening further scales goalie defensive WAR on top of the
// position weights
const GoalieDefensiveDampening = 0.4

// Context adjustments, as fractions of raw WAR
const (
	AwayGameBonus = 0.05
	WinBonus      = 0.03
)

// Impact factor bounds; the factor is game_impact_score / ImpactPivot
const (
	ImpactPivot     = 5.0
	MinImpactFactor = 0.5
	MaxImpactFactor = 1.5
)

// ReplacementPercentile is the quantile that defines replacement level
const ReplacementPercentile = 0.2

// MinGamesQualified is the default games threshold for a qualified player
const MinGamesQualified = 3

// MetricsFor returns the metric list of a position's category and component
func MetricsFor(pos models.DetailedPosition, c Component) []string {
	return metricLists[CategoryOf(pos)][c]
}

// positionMetrics returns every metric estimated for a position, in order
func positionMetrics(pos models.DetailedPosition) []string {
	var metrics []string
	for _, c := range Components {
		metrics = append(metrics, MetricsFor(pos, c)...)
	}
	return metrics
}

// weightsFor returns the weight table of a component, falling back to equal
// weights over the metric list
func weightsFor(pos models.DetailedPosition, c Component) []MetricWeight {
	if table, ok := metricWeights[CategoryOf(pos)][c]; ok {
		return table
	}
	metrics := MetricsFor(pos, c)
	if len(metrics) == 0 {
		return nil
	}
	weights := make([]MetricWeight, len(metrics))
	for i, m := range metrics {
		weights[i] = MetricWeight{Metric: m, Weight: 1.0 / float64(len(metrics))}
	}
	return weights
}
