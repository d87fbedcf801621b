package stats

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
)

// Points is goals plus assists
func Points(r models.StatRecord) int {
	return r.Goals + r.Assists
}

// FaceoffsTotal is faceoffs won plus lost
func FaceoffsTotal(r models.StatRecord) int {
	return r.FaceoffsWon + r.FaceoffsLost
}

// FaceoffPercentage returns the 0-100 faceoff win rate
func FaceoffPercentage(r models.StatRecord) (float64, bool) {
	total := FaceoffsTotal(r)
	if total == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.FaceoffsWon), float64(total))*100, 2), true
}

// ShotsMissed is shot attempts that did not reach the net
func ShotsMissed(r models.StatRecord) int {
	return max(0, r.ShotAttempts-r.Shots)
}

// ShootingPercentage returns goals per shot on goal, 0-100
func ShootingPercentage(r models.StatRecord) (float64, bool) {
	if r.Shots == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.Goals), float64(r.Shots))*100, 2), true
}

// PassesMissed is incomplete pass attempts
func PassesMissed(r models.StatRecord) int {
	return max(0, r.PassAttempts-r.Passes)
}

// PassingPercentage returns the 0-100 pass completion rate
func PassingPercentage(r models.StatRecord) (float64, bool) {
	if r.PassAttempts == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.Passes), float64(r.PassAttempts))*100, 2), true
}

// GoalsSaved is shots faced minus goals against; defined for goalies only
func GoalsSaved(r models.StatRecord) (int, bool) {
	if r.Position != models.PositionGoalie {
		return 0, false
	}
	return max(0, r.ShotsFaced-r.GoalsAgainst), true
}

// SavePercentage returns saves per shot faced, 0-100; defined for goalies
// that faced at least one shot
func SavePercentage(r models.StatRecord) (float64, bool) {
	if r.Position != models.PositionGoalie || r.ShotsFaced == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.Saves), float64(r.ShotsFaced))*100, 2), true
}

// MajorPenalties counts five-minute penalties
func MajorPenalties(r models.StatRecord) int {
	return floorDiv(r.PenaltyMinutes, 5)
}

// MinorPenalties counts two-minute penalties in the remainder
func MinorPenalties(r models.StatRecord) int {
	return floorDiv(floorMod(r.PenaltyMinutes, 5), 2)
}

// TotalPenalties is majors plus minors
func TotalPenalties(r models.StatRecord) int {
	return MajorPenalties(r) + MinorPenalties(r)
}

// PointsPer60 returns points per 60 minutes of ice time
func PointsPer60(r models.StatRecord) float64 {
	if r.TOI <= 0 {
		return 0
	}
	return Round(float64(Points(r)*60)/float64(r.TOI), 2)
}

// PossessionPerMinute returns seconds of possession per minute on ice
func PossessionPerMinute(r models.StatRecord) float64 {
	if r.TOI <= 0 {
		return 0
	}
	return Round(float64(r.PossessionSecs)/float64(r.TOI), 2)
}

// ShotEfficiency returns goals per shot attempt, 0-100
func ShotEfficiency(r models.StatRecord) (float64, bool) {
	if r.ShotAttempts == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.Goals), float64(r.ShotAttempts))*100, 2), true
}

// TakeawayGiveawayRatio returns takeaways per giveaway
func TakeawayGiveawayRatio(r models.StatRecord) (float64, bool) {
	if r.Giveaways == 0 {
		return 0, false
	}
	return Round(ratio(float64(r.Takeaways), float64(r.Giveaways)), 2), true
}

// PenaltyDifferential is penalties drawn minus penalties taken
func PenaltyDifferential(r models.StatRecord) int {
	return r.PenaltiesDrawn - TotalPenalties(r)
}

// DefensiveActionsPerMinute counts hits, blocks and takeaways per minute
func DefensiveActionsPerMinute(r models.StatRecord) float64 {
	if r.TOI == 0 {
		return 0
	}
	actions := r.Hits + r.BlockedShots + r.Takeaways
	return Round(float64(actions)/float64(r.TOI), 2)
}

// OffensiveImpact weighs goals, assists and shots per minute
func OffensiveImpact(r models.StatRecord) float64 {
	if r.TOI == 0 {
		return 0
	}
	impact := float64(r.Goals*2) + float64(r.Assists) + float64(r.Shots)*0.5
	return Round(impact/float64(r.TOI), 2)
}

// DefensiveImpact is positive defensive actions less giveaways, per minute
func DefensiveImpact(r models.StatRecord) float64 {
	if r.TOI == 0 {
		return 0
	}
	impact := (r.Hits + r.BlockedShots + r.Takeaways) - r.Giveaways
	return Round(float64(impact)/float64(r.TOI), 2)
}

// DetailedPosition splits defensemen into left and right using posSorted.
// Unknown tags pass through unchanged.
func DetailedPosition(r models.StatRecord) models.DetailedPosition {
	if r.Position == models.PositionDefenseMen {
		if r.PosSorted == 1 {
			return models.DetailedRightDefense
		}
		return models.DetailedLeftDefense
	}
	return models.DetailedPosition(r.Position)
}

// PositionAbbreviation returns C, LW, RW, LD, RD or G
func PositionAbbreviation(r models.StatRecord) string {
	switch r.Position {
	case models.PositionDefenseMen:
		if r.PosSorted == 1 {
			return "RD"
		}
		return "LD"
	case models.PositionLeftWing:
		return "LW"
	case models.PositionRightWing:
		return "RW"
	case models.PositionCenter:
		return "C"
	case models.PositionGoalie:
		return "G"
	default:
		return ""
	}
}

// PuckManagementRating rates passing, takeaway/giveaway balance and
// interceptions on a 0-10 scale
func PuckManagementRating(r models.StatRecord) float64 {
	passFactor, _ := PassingPercentage(r)
	tgRatio := 5.0
	if r.Giveaways > 0 {
		tgRatio = math.Min(10, float64(r.Takeaways)/float64(r.Giveaways)*5)
	}
	interceptionFactor := math.Min(5, float64(r.Interceptions)*0.5)

	raw := (passFactor/10 + tgRatio + interceptionFactor) / 3
	return Round(math.Min(10, raw), 1)
}

// PossessionEfficiency returns points per minute of possession
func PossessionEfficiency(r models.StatRecord) (float64, bool) {
	if r.PossessionSecs == 0 {
		return 0, false
	}
	return Round(float64(Points(r)*60)/float64(r.PossessionSecs), 2), true
}

// NetDefensiveContribution is blocks, takeaways and interceptions less giveaways
func NetDefensiveContribution(r models.StatRecord) int {
	return r.BlockedShots + r.Takeaways + r.Interceptions - r.Giveaways
}

// TimeAdjustedRating scales the mean EA rating by ice time
func TimeAdjustedRating(r models.StatRecord) float64 {
	avg := (r.RatingDefense + r.RatingOffense + r.RatingTeamplay) / 3
	toiFactor := math.Min(1.5, math.Max(0.5, float64(r.TOI)/20))
	return Round(avg*toiFactor, 1)
}

// ShotGenerationRate returns shot attempts per minute, from TOI seconds
func ShotGenerationRate(r models.StatRecord) float64 {
	if r.TOISeconds > 0 {
		return Round(float64(r.ShotAttempts*60)/float64(r.TOISeconds), 2)
	}
	return 0
}

// OffensiveZonePresence combines shot, pass and possession volume
func OffensiveZonePresence(r models.StatRecord) float64 {
	shotFactor := math.Min(5, float64(r.ShotAttempts)*0.2)
	passFactor := math.Min(3, float64(r.PassAttempts)*0.05)
	possFactor := math.Min(5, float64(r.PossessionSecs)/60)
	return Round(shotFactor+passFactor+possFactor, 1)
}

// TwoWayRating balances offensive production and defensive play, 0-10
func TwoWayRating(r models.StatRecord) float64 {
	offValue := float64(Points(r)*2) + float64(r.Shots)*0.3 + float64(r.ShotAttempts)*0.1
	defValue := float64(r.BlockedShots)*0.7 + float64(r.Takeaways)*0.8 +
		float64(r.Interceptions)*0.6 - float64(r.Giveaways)*0.5

	scaledOff := math.Min(10, offValue/2)
	scaledDef := math.Min(10, (defValue+5)/2)
	return Round((scaledOff+scaledDef)/2, 1)
}
