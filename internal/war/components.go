package war

import (
	"github.com/yourusername/rinkwar/internal/models"
)

// weightedTerm is one present metric of a component after renormalization
type weightedTerm struct {
	metric     string
	baseline   float64
	normalized float64
	scaling    float64
}

// ComponentCalculator values player-games against one replacement table.
// Weights are renormalized per position over the metrics the table holds.
type ComponentCalculator struct {
	table    *ReplacementTable
	plans    map[models.DetailedPosition]map[Component][]weightedTerm
	warnings []*models.ConfigurationError
}

// NewComponentCalculator prepares the renormalized weights of every position
// present in the table. Weighted metrics the table lacks are reported as
// configuration warnings.
func NewComponentCalculator(table *ReplacementTable) *ComponentCalculator {
	c := &ComponentCalculator{
		table: table,
		plans: make(map[models.DetailedPosition]map[Component][]weightedTerm),
	}

	for _, pos := range models.DetailedPositions {
		if !table.Has(pos) {
			continue
		}
		plan := make(map[Component][]weightedTerm)
		for _, comp := range Components {
			plan[comp] = c.planComponent(pos, comp)
		}
		c.plans[pos] = plan
	}

	return c
}

func (c *ComponentCalculator) planComponent(pos models.DetailedPosition, comp Component) []weightedTerm {
	weights := weightsFor(pos, comp)

	type present struct {
		MetricWeight
		baseline float64
	}
	var found []present
	total := 0.0

	for _, w := range weights {
		baseline, ok := c.baselineFor(pos, w.Metric)
		if !ok {
			c.warnings = append(c.warnings, &models.ConfigurationError{
				Position:  pos,
				Component: string(comp),
				Metric:    w.Metric,
			})
			continue
		}
		found = append(found, present{MetricWeight: w, baseline: baseline})
		total += w.Weight
	}

	if total <= 0 {
		return nil
	}

	terms := make([]weightedTerm, len(found))
	for i, p := range found {
		terms[i] = weightedTerm{
			metric:     p.Metric,
			baseline:   p.baseline,
			normalized: p.Weight / total,
			scaling:    ScalingFactor(p.Metric),
		}
	}
	return terms
}

// baselineFor returns the replacement level a metric is compared against.
// Normalized GAA is compared against the raw GAA level.
func (c *ComponentCalculator) baselineFor(pos models.DetailedPosition, metric string) (float64, bool) {
	if metric == MetricGAANormalized {
		return c.table.Level(pos, MetricGAA)
	}
	return c.table.Level(pos, metric)
}

// Warnings returns the weighted metrics missing from the season
func (c *ComponentCalculator) Warnings() []*models.ConfigurationError {
	return c.warnings
}

// NormalizedWeights returns the renormalized weights of a component
func (c *ComponentCalculator) NormalizedWeights(pos models.DetailedPosition, comp Component) map[string]float64 {
	weights := make(map[string]float64)
	for _, term := range c.plans[pos][comp] {
		weights[term.metric] = term.normalized
	}
	return weights
}

// Components returns the three WAR sub-scores of one player-game
func (c *ComponentCalculator) Components(r models.StatRecord, pos models.DetailedPosition) models.WARComponents {
	return models.WARComponents{
		Offensive: c.component(r, pos, Offensive),
		Defensive: c.component(r, pos, Defensive),
		Teamplay:  c.component(r, pos, Teamplay),
	}
}

func (c *ComponentCalculator) component(r models.StatRecord, pos models.DetailedPosition, comp Component) float64 {
	terms := c.plans[pos][comp]
	if len(terms) == 0 {
		return 0
	}

	value := 0.0
	for _, term := range terms {
		aboveReplacement := valuationValue(r, term.metric) - term.baseline
		value += aboveReplacement * term.normalized * term.scaling
	}

	weights, _ := WeightsFor(pos)
	value *= weights.Of(comp)

	if pos.IsGoalie() && comp == Defensive {
		value *= GoalieDefensiveDampening
	}
	return value
}
