package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rinkwar/internal/models"
)

func skater() models.StatRecord {
	return models.StatRecord{
		PlayerID:       "1001",
		PlayerName:     "Skater",
		MatchID:        "m1",
		ClubID:         "c1",
		Position:       models.PositionCenter,
		TOI:            20,
		TOISeconds:     1200,
		Goals:          1,
		Assists:        2,
		Shots:          4,
		ShotAttempts:   6,
		FaceoffsWon:    8,
		FaceoffsLost:   2,
		Passes:         15,
		PassAttempts:   20,
		Hits:           3,
		BlockedShots:   2,
		Takeaways:      4,
		Giveaways:      2,
		Interceptions:  3,
		PossessionSecs: 120,
		PenaltyMinutes: 2,
		PenaltiesDrawn: 1,
		RatingOffense:  80,
		RatingDefense:  60,
		RatingTeamplay: 70,
	}
}

func TestPointsIdentity(t *testing.T) {
	for goals := 0; goals < 4; goals++ {
		for assists := 0; assists < 4; assists++ {
			r := skater()
			r.Goals = goals
			r.Assists = assists
			assert.Equal(t, goals+assists, Points(r))
		}
	}
}

func TestFaceoffPercentage(t *testing.T) {
	pct, ok := FaceoffPercentage(skater())
	require.True(t, ok)
	assert.Equal(t, 80.0, pct)

	r := skater()
	r.FaceoffsWon, r.FaceoffsLost = 0, 0
	_, ok = FaceoffPercentage(r)
	assert.False(t, ok, "no faceoffs means the percentage is undefined, not 0")
}

func TestPercentagesUndefinedOnZeroDenominator(t *testing.T) {
	r := skater()
	r.Shots, r.ShotAttempts, r.PassAttempts, r.Giveaways, r.PossessionSecs = 0, 0, 0, 0, 0

	_, ok := ShootingPercentage(r)
	assert.False(t, ok)
	_, ok = ShotEfficiency(r)
	assert.False(t, ok)
	_, ok = PassingPercentage(r)
	assert.False(t, ok)
	_, ok = TakeawayGiveawayRatio(r)
	assert.False(t, ok, "0 giveaways is undefined, not infinite and not zero")
	_, ok = PossessionEfficiency(r)
	assert.False(t, ok)
}

func TestShootingAndPassing(t *testing.T) {
	r := skater()
	shooting, ok := ShootingPercentage(r)
	require.True(t, ok)
	assert.Equal(t, 25.0, shooting)

	passing, ok := PassingPercentage(r)
	require.True(t, ok)
	assert.Equal(t, 75.0, passing)

	efficiency, ok := ShotEfficiency(r)
	require.True(t, ok)
	assert.Equal(t, 16.67, efficiency)

	assert.Equal(t, 2, ShotsMissed(r))
	assert.Equal(t, 5, PassesMissed(r))

	r.Shots = 10
	assert.Equal(t, 0, ShotsMissed(r), "missed shots never go negative")
}

func TestGoalieOnlyMetrics(t *testing.T) {
	r := skater()
	_, ok := GoalsSaved(r)
	assert.False(t, ok)
	_, ok = SavePercentage(r)
	assert.False(t, ok)

	r.Position = models.PositionGoalie
	r.ShotsFaced, r.Saves, r.GoalsAgainst = 20, 18, 2
	saved, ok := GoalsSaved(r)
	require.True(t, ok)
	assert.Equal(t, 18, saved)

	pct, ok := SavePercentage(r)
	require.True(t, ok)
	assert.Equal(t, 90.0, pct)

	r.ShotsFaced, r.Saves, r.GoalsAgainst = 0, 0, 0
	_, ok = SavePercentage(r)
	assert.False(t, ok, "a goalie facing no shots has an undefined save percentage")
}

func TestPenalties(t *testing.T) {
	tests := []struct {
		pim, majors, minors int
	}{
		{0, 0, 0},
		{2, 0, 1},
		{4, 0, 2},
		{5, 1, 0},
		{7, 1, 1},
		{12, 2, 1},
	}
	for _, tt := range tests {
		r := skater()
		r.PenaltyMinutes = tt.pim
		assert.Equal(t, tt.majors, MajorPenalties(r), "pim=%d", tt.pim)
		assert.Equal(t, tt.minors, MinorPenalties(r), "pim=%d", tt.pim)
		assert.Equal(t, tt.majors+tt.minors, TotalPenalties(r), "pim=%d", tt.pim)
	}

	assert.Equal(t, 0, PenaltyDifferential(skater()))
}

func TestRates(t *testing.T) {
	r := skater()
	assert.Equal(t, 9.0, PointsPer60(r))
	assert.Equal(t, 6.0, PossessionPerMinute(r))
	assert.Equal(t, 0.45, DefensiveActionsPerMinute(r))
	assert.Equal(t, 0.3, ShotGenerationRate(r))
	assert.Equal(t, 0.3, OffensiveImpact(r))
	assert.Equal(t, 0.35, DefensiveImpact(r))

	r.TOI, r.TOISeconds = 0, 0
	assert.Zero(t, PointsPer60(r))
	assert.Zero(t, PossessionPerMinute(r))
	assert.Zero(t, DefensiveActionsPerMinute(r))
	assert.Zero(t, ShotGenerationRate(r))
}

func TestDetailedPosition(t *testing.T) {
	r := skater()
	r.Position = models.PositionDefenseMen
	r.PosSorted = 1
	assert.Equal(t, models.DetailedRightDefense, DetailedPosition(r))
	assert.Equal(t, "RD", PositionAbbreviation(r))

	r.PosSorted = 0
	assert.Equal(t, models.DetailedLeftDefense, DetailedPosition(r))
	assert.Equal(t, "LD", PositionAbbreviation(r))

	r.PosSorted = 3
	assert.Equal(t, models.DetailedLeftDefense, DetailedPosition(r))

	r.Position = models.PositionLeftWing
	assert.Equal(t, models.DetailedLeftWing, DetailedPosition(r))
	assert.Equal(t, "LW", PositionAbbreviation(r))
}

func TestPuckManagementRating(t *testing.T) {
	// (75/10 + min(10, 4/2*5) + min(5, 3*0.5)) / 3 = (7.5 + 10 + 1.5) / 3
	assert.Equal(t, 6.3, PuckManagementRating(skater()))

	r := skater()
	r.Giveaways = 0
	r.PassAttempts = 0
	// (0 + 5 + 1.5) / 3
	assert.Equal(t, 2.2, PuckManagementRating(r))
}

func TestCompositeRatings(t *testing.T) {
	r := skater()
	assert.Equal(t, 7, NetDefensiveContribution(r))
	assert.Equal(t, 70.0, TimeAdjustedRating(r))
	// shots 6*0.2=1.2, passes 20*0.05=1.0, possession 120/60=2.0
	assert.Equal(t, 4.2, OffensiveZonePresence(r))
	// off = 6+1.2+0.6 = 7.8 -> 3.9 ; def = 1.4+3.2+1.8-1.0 = 5.4 -> 5.2
	assert.Equal(t, 4.5, TwoWayRating(r))
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 0.2, Round(0.25, 1))
	assert.Equal(t, 0.3, Round(0.35, 1), "0.35 is stored slightly below the midpoint")
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 10.0, Round(10.0, 1))
	assert.Equal(t, -1.4, Round(-1.45, 1))
	assert.Equal(t, 16.67, Round(100.0/6.0, 2))
}
