package war

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rinkwar/internal/models"
)

func newTestPipeline(workers int, tc *TableCache) *Pipeline {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewPipeline(PipelineConfig{Workers: workers, Estimate: DefaultEstimateOptions()}, tc, log)
}

// season builds three games for a full club plus one record with an
// unrecognized position tag
func season() []models.StatRecord {
	var records []models.StatRecord
	for game := 0; game < 3; game++ {
		match := fmt.Sprintf("m%d", game)

		lineup := []models.StatRecord{
			skater("10", models.PositionCenter, game, 1),
			skater("11", models.PositionLeftWing, 1, game),
			skater("12", models.PositionRightWing, 0, 0),
			skater("13", models.PositionDefenseMen, 0, game),
			skater("14", models.PositionDefenseMen, game%2, 1),
			goalie("15", 12+game, game),
		}
		lineup[4].PosSorted = 1
		if game == 1 {
			for i := range lineup {
				lineup[i].Result = models.GameResultWin
				lineup[i].Venue = models.VenueAway
			}
		}
		for i := range lineup {
			lineup[i].MatchID = match
		}
		records = append(records, lineup...)
	}

	rover := skater("16", models.Position("rover"), 1, 1)
	rover.MatchID = "m0"
	return append(records, rover)
}

func TestPipelineRun(t *testing.T) {
	records := season()
	p := newTestPipeline(4, nil)

	result, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())
	assert.Equal(t, len(records), result.Report.RecordsIn)
	assert.Equal(t, 1, result.Report.RecordsSkipped, "unknown positions are not valued")
	assert.Len(t, result.Games, len(records)-1)
	assert.Len(t, result.Season, 6)
	assert.Equal(t, 6, result.Report.SeasonPlayers)
	assert.Equal(t, 6, result.Report.QualifiedPlayers)
	assert.False(t, result.Report.CachedTable)

	for i := 1; i < len(result.Season); i++ {
		assert.GreaterOrEqual(t, result.Season[i-1].WARValue, result.Season[i].WARValue)
	}

	perPlayer := make(map[string]float64)
	for _, g := range result.Games {
		perPlayer[g.PlayerID] += g.WARValue
		assert.GreaterOrEqual(t, g.GameImpactScore, 0.0)
		assert.LessOrEqual(t, g.GameImpactScore, 10.0)
	}
	for _, row := range result.Season {
		assert.InDelta(t, perPlayer[row.PlayerID], row.WARValue, 1e-12)
		assert.Equal(t, 3, row.GamesPlayed)
	}

	positions := make(map[models.DetailedPosition]bool)
	for _, row := range result.Season {
		positions[row.Position] = true
	}
	assert.True(t, positions[models.DetailedLeftDefense])
	assert.True(t, positions[models.DetailedRightDefense])
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	records := season()
	tc := NewTableCache(time.Minute)

	first, err := newTestPipeline(1, tc).Run(context.Background(), records)
	require.NoError(t, err)
	second, err := newTestPipeline(8, tc).Run(context.Background(), records)
	require.NoError(t, err)

	assert.True(t, second.Report.CachedTable)
	assert.Same(t, first.Table, second.Table)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Games, second.Games)
	assert.Equal(t, first.Season, second.Season)

	third, err := newTestPipeline(2, nil).Run(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, first.Season, third.Season)
}

func TestPipelineScorePreservesOrder(t *testing.T) {
	records := season()

	scored, err := newTestPipeline(3, nil).Score(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, scored, len(records))

	assert.Equal(t, records, scored.Records())
	assert.Equal(t, models.DetailedRightDefense, scored[4].Position)
	assert.Equal(t, 5.0, scored[len(scored)-1].Score)
}

func TestPipelineReplacementLevelSeasonIsZero(t *testing.T) {
	r := skater("10", models.PositionCenter, 1, 1)
	records := []models.StatRecord{r, r, r}

	result, err := newTestPipeline(2, nil).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, result.Season, 1)
	assert.InDelta(t, 0, result.Season[0].WARValue, 1e-12)
}

func TestPipelineReportsConfigurationWarnings(t *testing.T) {
	records := season()
	for i := range records {
		records[i].ShotAttempts = 0
	}

	result, err := newTestPipeline(2, nil).Run(context.Background(), records)
	require.NoError(t, err)

	// shot efficiency is missing for the five skater positions
	require.Len(t, result.Report.ConfigurationWarnings, 5)
	for _, w := range result.Report.ConfigurationWarnings {
		assert.True(t, errors.Is(w, models.ErrConfiguration))
		assert.Equal(t, MetricShotEfficiency, w.Metric)
	}
	assert.Len(t, result.Season, 6)
}

func TestPipelineHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(2, nil).Run(ctx, season())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = newTestPipeline(2, nil).Run(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipelineEmptySeason(t *testing.T) {
	result, err := newTestPipeline(2, nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Games)
	assert.Empty(t, result.Season)
	assert.Equal(t, 0, result.Table.Len())
}

func TestSeasonResultStoredRun(t *testing.T) {
	records := season()
	records[0].ShotAttempts = 0

	result, err := newTestPipeline(2, nil).Run(context.Background(), records)
	require.NoError(t, err)

	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := result.StoredRun(createdAt)

	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, Fingerprint(records), run.Fingerprint)
	assert.Equal(t, len(records), run.RecordsIn)
	assert.Equal(t, 1, run.RecordsSkipped)
	assert.Equal(t, 6, run.QualifiedPlayers)
	assert.Equal(t, len(result.Report.ConfigurationWarnings), run.ConfigurationWarnings)
	assert.Equal(t, createdAt, run.CreatedAt)
}

func TestSeasonResultAddRejected(t *testing.T) {
	records := season()

	result, err := newTestPipeline(2, nil).Run(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, 1, result.Report.RecordsSkipped)

	result.AddRejected(0)
	assert.Equal(t, 0, result.Report.RecordsRejected)

	result.AddRejected(2)
	assert.Equal(t, 2, result.Report.RecordsRejected)
	assert.Equal(t, len(records)+2, result.Report.RecordsIn)
	assert.Equal(t, 3, result.Report.RecordsSkipped)

	run := result.StoredRun(time.Now())
	assert.Equal(t, 3, run.RecordsSkipped)
}
