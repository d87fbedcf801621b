package war

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rinkwar/internal/models"
)

func skater(id string, pos models.Position, goals, assists int) models.StatRecord {
	return models.StatRecord{
		PlayerID:       id,
		PlayerName:     "Player " + id,
		MatchID:        "m1",
		ClubID:         "c1",
		Position:       pos,
		TOI:            20,
		TOISeconds:     1200,
		Goals:          goals,
		Assists:        assists,
		Shots:          goals + 2,
		ShotAttempts:   goals + 4,
		Passes:         10 + assists,
		PassAttempts:   15,
		PassPct:        70,
		Hits:           2,
		BlockedShots:   1,
		Takeaways:      2,
		Giveaways:      1,
		Interceptions:  2,
		PossessionSecs: 60,
		PlusMinus:      goals - 1,
		Result:         models.GameResultLoss,
		Venue:          models.VenueHome,
	}
}

func goalie(id string, shots, goalsAgainst int) models.StatRecord {
	r := models.StatRecord{
		PlayerID:     id,
		PlayerName:   "Goalie " + id,
		MatchID:      "m1",
		ClubID:       "c1",
		Position:     models.PositionGoalie,
		TOI:          60,
		ShotsFaced:   shots,
		GoalsAgainst: goalsAgainst,
		Saves:        shots - goalsAgainst,
		Result:       models.GameResultLoss,
		Venue:        models.VenueHome,
	}
	r.GoalsAgainstAverage = float64(goalsAgainst)
	if shots > 0 {
		r.GoalieSavePct = float64(shots-goalsAgainst) / float64(shots)
	}
	return r
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{name: "single value", values: []float64{4}, q: 0.2, want: 4},
		{name: "constant column", values: []float64{2.5, 2.5, 2.5}, q: 0.2, want: 2.5},
		{name: "interpolates below midpoint", values: []float64{20, 10}, q: 0.2, want: 12},
		{name: "interpolates from midpoint", values: []float64{5, 1, 3, 2, 4}, q: 0.2, want: 1.8},
		{name: "exact rank", values: []float64{0, 1, 2, 3, 4, 5}, q: 0.2, want: 1},
		{name: "maximum", values: []float64{1, 9, 3}, q: 1, want: 9},
		{name: "minimum", values: []float64{7, 9, 3}, q: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.values, tt.q), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Percentile(nil, 0.2)))
}

func TestPercentileDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 0.2)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestEstimateGroupsByDetailedPosition(t *testing.T) {
	left := skater("1", models.PositionDefenseMen, 0, 1)
	right := skater("2", models.PositionDefenseMen, 2, 1)
	right.PosSorted = 1
	rover := skater("3", models.Position("rover"), 5, 5)

	table := Estimate([]models.StatRecord{left, right, rover}, DefaultEstimateOptions())

	assert.True(t, table.Has(models.DetailedLeftDefense))
	assert.True(t, table.Has(models.DetailedRightDefense))
	assert.False(t, table.Has(models.DetailedCenter))
	assert.Equal(t, 1, table.GroupSize(models.DetailedLeftDefense))

	goals, ok := table.Level(models.DetailedRightDefense, MetricGoals)
	require.True(t, ok)
	assert.Equal(t, 2.0, goals)

	_, ok = table.Level(models.DetailedPosition("rover"), MetricGoals)
	assert.False(t, ok)
}

func TestEstimateOmitsUndefinedColumns(t *testing.T) {
	records := []models.StatRecord{
		skater("1", models.PositionCenter, 0, 0),
		skater("2", models.PositionCenter, 1, 0),
	}
	for i := range records {
		records[i].ShotAttempts = 0
	}

	table := Estimate(records, DefaultEstimateOptions())

	_, ok := table.Level(models.DetailedCenter, MetricShotEfficiency)
	assert.False(t, ok)
	assert.NotContains(t, table.Metrics(models.DetailedCenter), MetricShotEfficiency)

	// defined for one record only: the other counts as zero
	records[1].ShotAttempts = 4
	table = Estimate(records, DefaultEstimateOptions())
	level, ok := table.Level(models.DetailedCenter, MetricShotEfficiency)
	require.True(t, ok)
	assert.InDelta(t, 5.0, level, 1e-12)
}

func TestEstimateCountsQualifiedPlayers(t *testing.T) {
	var records []models.StatRecord
	for i := 0; i < 3; i++ {
		records = append(records, skater("1", models.PositionCenter, i, 0))
	}
	records = append(records, skater("2", models.PositionCenter, 1, 1))
	records = append(records, skater("2", models.PositionCenter, 1, 1))

	table := Estimate(records, DefaultEstimateOptions())
	assert.Equal(t, 1, table.QualifiedPlayers())

	table = Estimate(records, EstimateOptions{Percentile: 0.2, MinGamesQualified: 2})
	assert.Equal(t, 2, table.QualifiedPlayers())
}

func TestComponentsAtReplacementLevelAreZero(t *testing.T) {
	r := skater("1", models.PositionCenter, 1, 1)
	records := []models.StatRecord{r, r, r, r}

	calc := NewComponentCalculator(Estimate(records, DefaultEstimateOptions()))
	components := calc.Components(r, models.DetailedCenter)

	assert.InDelta(t, 0, components.Offensive, 1e-12)
	assert.InDelta(t, 0, components.Defensive, 1e-12)
	assert.InDelta(t, 0, components.Teamplay, 1e-12)
	assert.Empty(t, calc.Warnings())
}

func TestMissingMetricRenormalizesWeights(t *testing.T) {
	records := []models.StatRecord{
		skater("1", models.PositionCenter, 0, 0),
		skater("2", models.PositionCenter, 1, 2),
		skater("3", models.PositionCenter, 2, 1),
	}
	for i := range records {
		records[i].ShotAttempts = 0
	}

	calc := NewComponentCalculator(Estimate(records, DefaultEstimateOptions()))

	require.Len(t, calc.Warnings(), 1)
	warning := calc.Warnings()[0]
	assert.True(t, errors.Is(warning, models.ErrConfiguration))
	assert.Equal(t, MetricShotEfficiency, warning.Metric)
	assert.Equal(t, models.DetailedCenter, warning.Position)
	assert.Equal(t, string(Offensive), warning.Component)

	for _, comp := range Components {
		weights := calc.NormalizedWeights(models.DetailedCenter, comp)
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "component %s", comp)
	}

	offensive := calc.NormalizedWeights(models.DetailedCenter, Offensive)
	assert.NotContains(t, offensive, MetricShotEfficiency)
	assert.InDelta(t, 0.30/0.95, offensive[MetricPointsPer60], 1e-12)
}

func TestGoalieComponents(t *testing.T) {
	good := goalie("1", 10, 0)
	bad := goalie("2", 10, 5)

	table := Estimate([]models.StatRecord{good, bad}, DefaultEstimateOptions())

	gaa, ok := table.Level(models.DetailedGoalie, MetricGAA)
	require.True(t, ok)
	assert.InDelta(t, 1.0, gaa, 1e-12)
	_, ok = table.Level(models.DetailedGoalie, MetricGAANormalized)
	assert.False(t, ok, "normalized GAA has no level of its own")

	calc := NewComponentCalculator(table)
	assert.Empty(t, calc.Warnings())
	assert.Contains(t, calc.NormalizedWeights(models.DetailedGoalie, Defensive), MetricGAANormalized)

	teamplay := calc.NormalizedWeights(models.DetailedGoalie, Teamplay)
	assert.Equal(t, map[string]float64{MetricGoaliePKClearZone: 0.5, MetricPokeChecks: 0.5}, teamplay)

	components := calc.Components(good, models.DetailedGoalie)

	// save% (100-60)*0.35*10 + glsavepct (1-0.6)*0.20*8 + goals saved (10-6)*0.15*0.5,
	// normalized GAA 1.0 against the raw level 1.0 adds nothing
	undampened := 140.0 + 0.64 + 0.3
	assert.InDelta(t, undampened*0.85*GoalieDefensiveDampening, components.Defensive, 1e-9)
	assert.Equal(t, 0.0, components.Offensive)
	assert.Equal(t, 0.0, components.Teamplay)
}

func TestNormalizedGAA(t *testing.T) {
	r := goalie("1", 10, 3)
	assert.InDelta(t, 0.5, normalizedGAA(r), 1e-12)

	r.GoalsAgainstAverage = 9
	assert.Equal(t, 0.0, normalizedGAA(r))

	r.GoalsAgainstAverage = -1
	assert.Equal(t, 1.0, normalizedGAA(r))
}

func TestImpactFactor(t *testing.T) {
	assert.Equal(t, 0.5, ImpactFactor(0))
	assert.Equal(t, 0.5, ImpactFactor(2.5))
	assert.Equal(t, 1.0, ImpactFactor(5))
	assert.InDelta(t, 1.3, ImpactFactor(6.5), 1e-12)
	assert.Equal(t, 1.5, ImpactFactor(10))
}

func TestValueGame(t *testing.T) {
	r := skater("1", models.PositionCenter, 2, 1)
	r.Result = models.GameResultWin
	r.Venue = models.VenueAway
	components := models.WARComponents{Offensive: 1, Defensive: 0.5, Teamplay: 0.5}

	game := ValueGame(r, models.DetailedCenter, 7.5, components)

	assert.Equal(t, 2.0, game.RawWAR)
	assert.InDelta(t, 0.16, game.ContextAdjustment, 1e-12)
	assert.Equal(t, 1.5, game.ImpactFactor)
	assert.InDelta(t, 3.24, game.AdjustedWAR, 1e-12)
	assert.InDelta(t, 0.54, game.WARValue, 1e-12)
	assert.Equal(t, 2, game.Goals)

	r.Result = models.GameResultLoss
	r.Venue = models.VenueHome
	goalieGame := ValueGame(r, models.DetailedGoalie, 5, components)
	assert.Equal(t, 0.0, goalieGame.ContextAdjustment)
	assert.InDelta(t, 0.1, goalieGame.WARValue, 1e-12)
}

func TestValueGameNegativeWAR(t *testing.T) {
	r := skater("1", models.PositionCenter, 0, 0)
	r.Result = models.GameResultWin
	components := models.WARComponents{Offensive: -3}

	game := ValueGame(r, models.DetailedCenter, 1, components)

	// the win bonus is a share of raw WAR, so it deepens a negative game
	assert.InDelta(t, -0.09, game.ContextAdjustment, 1e-12)
	assert.InDelta(t, -3.09*0.5/6, game.WARValue, 1e-12)
}

func TestAggregate(t *testing.T) {
	games := []models.PlayerGameWAR{
		{PlayerID: "1", PlayerName: "A", Position: models.DetailedCenter, WARValue: 0.5, GameImpactScore: 6, Goals: 1, Assists: 1, PlusMinus: 1,
			Components: models.WARComponents{Offensive: 1, Defensive: 0.5}},
		{PlayerID: "3", PlayerName: "C", Position: models.DetailedLeftWing, WARValue: 0.8, GameImpactScore: 7},
		{PlayerID: "1", PlayerName: "A", Position: models.DetailedCenter, WARValue: 0.2, GameImpactScore: 8, Goals: 2, PlusMinus: -1,
			Components: models.WARComponents{Offensive: 0.5, Teamplay: 0.25}},
		{PlayerID: "2", PlayerName: "B", Position: models.DetailedGoalie, WARValue: 0.8, GameImpactScore: 7},
		{PlayerID: "1", PlayerName: "A", Position: models.DetailedLeftWing, WARValue: -0.1, GameImpactScore: 4},
	}

	rows := Aggregate(games)
	require.Len(t, rows, 4)

	assert.Equal(t, "2", rows[0].PlayerID, "ties break on player id")
	assert.Equal(t, "3", rows[1].PlayerID)
	assert.Equal(t, "1", rows[2].PlayerID)
	assert.Equal(t, models.DetailedCenter, rows[2].Position)
	assert.Equal(t, models.DetailedLeftWing, rows[3].Position, "each position is its own row")

	a := rows[2]
	assert.InDelta(t, 0.7, a.WARValue, 1e-12)
	assert.InDelta(t, 1.5, a.OffensiveWAR, 1e-12)
	assert.InDelta(t, 0.5, a.DefensiveWAR, 1e-12)
	assert.InDelta(t, 0.25, a.TeamplayWAR, 1e-12)
	assert.Equal(t, 2, a.GamesPlayed)
	assert.InDelta(t, 0.35, a.WARPerGame, 1e-12)
	assert.Equal(t, 3, a.Goals)
	assert.Equal(t, 1, a.Assists)
	assert.Equal(t, 4, a.Points)
	assert.Equal(t, 0, a.PlusMinus)
	assert.Equal(t, 7.0, a.AvgGameImpact)

	assert.Empty(t, Aggregate(nil))
}

func TestAnalyzeDistribution(t *testing.T) {
	rows := []models.PlayerSeasonWAR{
		{PlayerID: "1", PlayerName: "A", Position: models.DetailedCenter, WARValue: 3},
		{PlayerID: "2", PlayerName: "B", Position: models.DetailedCenter, WARValue: 1},
		{PlayerID: "3", PlayerName: "C", Position: models.DetailedCenter, WARValue: 2},
		{PlayerID: "4", PlayerName: "D", Position: models.DetailedGoalie, WARValue: 0.5},
		{PlayerID: "5", PlayerName: "E", Position: models.DetailedGoalie, WARValue: 1.5},
	}

	summaries := AnalyzeDistribution(rows)
	require.Len(t, summaries, 2)

	center := summaries[0]
	assert.Equal(t, models.DetailedCenter, center.Position)
	assert.Equal(t, 3, center.Players)
	assert.Equal(t, 2.0, center.MeanWAR)
	assert.Equal(t, 2.0, center.MedianWAR)
	assert.Equal(t, "A", center.TopPlayer)

	g := summaries[1]
	assert.Equal(t, models.DetailedGoalie, g.Position)
	assert.Equal(t, 1.0, g.MedianWAR)
	assert.Equal(t, "5", g.TopPlayerID)
	assert.Equal(t, 1.5, g.TopWAR)
}

func TestFingerprint(t *testing.T) {
	a := skater("1", models.PositionCenter, 1, 0)
	b := skater("2", models.PositionLeftWing, 0, 1)

	fp := Fingerprint([]models.StatRecord{a, b})
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint([]models.StatRecord{b, a}), "record order does not matter")

	b.Hits++
	assert.NotEqual(t, fp, Fingerprint([]models.StatRecord{a, b}))
	assert.NotEqual(t, fp, Fingerprint([]models.StatRecord{a}))
}

func TestTableCache(t *testing.T) {
	records := []models.StatRecord{
		skater("1", models.PositionCenter, 1, 0),
		skater("2", models.PositionCenter, 0, 2),
	}
	tc := NewTableCache(time.Minute)
	opts := DefaultEstimateOptions()

	first, cached := tc.GetOrEstimate(records, opts)
	assert.False(t, cached)

	second, cached := tc.GetOrEstimate(records, opts)
	assert.True(t, cached)
	assert.Same(t, first, second)

	_, cached = tc.GetOrEstimate(records, EstimateOptions{Percentile: 0.5, MinGamesQualified: 3})
	assert.False(t, cached, "different options build a new table")

	records[1].Goals = 4
	changed, cached := tc.GetOrEstimate(records, opts)
	assert.False(t, cached, "a changed season is never served a stale table")
	assert.NotEqual(t, first.Fingerprint(), changed.Fingerprint())

	hits, misses := tc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(3), misses)
	assert.Equal(t, 3, tc.ItemCount())

	tc.Clear()
	assert.Equal(t, 0, tc.ItemCount())
}
