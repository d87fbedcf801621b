package war

import (
	"math"
	"sort"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

// ReplacementTable maps (position, metric) to the replacement level of one
// game set. It is never modified after Estimate returns it.
type ReplacementTable struct {
	levels      map[models.DetailedPosition]map[string]float64
	groupSizes  map[models.DetailedPosition]int
	fingerprint string
	qualified   int
	opts        EstimateOptions
}

// Level returns the replacement level of a metric for a position
func (t *ReplacementTable) Level(pos models.DetailedPosition, metric string) (float64, bool) {
	levels, ok := t.levels[pos]
	if !ok {
		return 0, false
	}
	v, ok := levels[metric]
	return v, ok
}

// Has reports whether the position had any records in the game set
func (t *ReplacementTable) Has(pos models.DetailedPosition) bool {
	return t.groupSizes[pos] > 0
}

// GroupSize returns how many player-games the position contributed
func (t *ReplacementTable) GroupSize(pos models.DetailedPosition) int {
	return t.groupSizes[pos]
}

// Metrics returns the metrics with a level for a position, in table order
func (t *ReplacementTable) Metrics(pos models.DetailedPosition) []string {
	var metrics []string
	for _, m := range positionMetrics(pos) {
		if _, ok := t.levels[pos][m]; ok {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

// Len returns the number of (position, metric) entries
func (t *ReplacementTable) Len() int {
	n := 0
	for _, levels := range t.levels {
		n += len(levels)
	}
	return n
}

// Fingerprint identifies the game set the table was built from
func (t *ReplacementTable) Fingerprint() string {
	return t.fingerprint
}

// QualifiedPlayers counts players with at least the qualifying number of games
func (t *ReplacementTable) QualifiedPlayers() int {
	return t.qualified
}

// EstimateOptions tunes the replacement estimate
type EstimateOptions struct {
	Percentile        float64
	MinGamesQualified int
}

// DefaultEstimateOptions returns the 20th percentile and a three game threshold
func DefaultEstimateOptions() EstimateOptions {
	return EstimateOptions{
		Percentile:        ReplacementPercentile,
		MinGamesQualified: MinGamesQualified,
	}
}

// Estimate builds the replacement table of a season. Every record of a
// position contributes, qualified or not. A metric with no defined value in
// a position is omitted; undefined entries of a present metric count as 0.
func Estimate(records []models.StatRecord, opts EstimateOptions) *ReplacementTable {
	return estimate(records, opts, Fingerprint(records))
}

func estimate(records []models.StatRecord, opts EstimateOptions, fingerprint string) *ReplacementTable {
	groups := make(map[models.DetailedPosition][]models.StatRecord)
	for _, r := range records {
		pos := stats.DetailedPosition(r)
		if _, known := positionWeights[pos]; !known {
			continue
		}
		groups[pos] = append(groups[pos], r)
	}

	table := &ReplacementTable{
		levels:      make(map[models.DetailedPosition]map[string]float64),
		groupSizes:  make(map[models.DetailedPosition]int),
		fingerprint: fingerprint,
		qualified:   countQualified(records, opts.MinGamesQualified),
		opts:        opts,
	}

	for _, pos := range models.DetailedPositions {
		group := groups[pos]
		if len(group) == 0 {
			continue
		}
		table.groupSizes[pos] = len(group)
		levels := make(map[string]float64)

		for _, metric := range positionMetrics(pos) {
			values := make([]float64, len(group))
			present := false
			for i, r := range group {
				v, ok := MetricValue(r, metric)
				if ok && !math.IsNaN(v) {
					values[i] = v
					present = true
				}
			}
			if !present {
				continue
			}
			levels[metric] = Percentile(values, opts.Percentile)
		}
		table.levels[pos] = levels
	}

	return table
}

// Percentile returns the q-quantile of values with linear interpolation
// between closest ranks. Interpolation is a + (b-a)*g below the midpoint of
// a gap and b - (b-a)*(1-g) from the midpoint on, which keeps the result
// exact at both ends.
func Percentile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	virtual := float64(n-1) * q
	lo := math.Floor(virtual)
	gamma := virtual - lo
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	if i < 0 {
		return sorted[0]
	}

	a, b := sorted[i], sorted[i+1]
	diff := b - a
	if gamma >= 0.5 {
		return b - diff*(1-gamma)
	}
	return a + diff*gamma
}

type playerKey struct {
	id       string
	name     string
	position models.DetailedPosition
}

func countQualified(records []models.StatRecord, minGames int) int {
	games := make(map[playerKey]int)
	for _, r := range records {
		games[playerKey{r.PlayerID, r.PlayerName, stats.DetailedPosition(r)}]++
	}
	qualified := 0
	for _, n := range games {
		if n >= minGames {
			qualified++
		}
	}
	return qualified
}
