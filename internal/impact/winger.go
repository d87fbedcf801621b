package impact

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

func wingerComponents(r models.StatRecord) []Component {
	points := stats.Points(r)
	raw := wingerRawProduction(r)
	factor := wingerTOIFactor(r.TOI, raw)

	scoringCap := 4.5
	if r.Goals >= 2 || points >= 3 {
		scoringCap = 5.5
	}

	return []Component{
		{Name: "scoring", Value: math.Min(scoringCap, raw*factor)},
		{Name: "possession", Value: math.Min(1.5, stats.PossessionPerMinute(r)/10)},
		{Name: "physical", Value: math.Min(1.5, (float64(r.Hits)*0.25+float64(r.BlockedShots)*0.15)*factor)},
		{Name: "defensive", Value: wingerDefensive(r, factor)},
		{Name: "plus_minus", Value: tieredPlusMinus(r)},
		{Name: "special_teams", Value: math.Min(1.0, float64(r.PowerPlayGoals)*0.5+float64(r.ShortHandedGoals)*0.7+float64(r.PKClearZone)*0.1)},
	}
}

// wingerRawProduction sums the scoring terms before ice time scaling
func wingerRawProduction(r models.StatRecord) float64 {
	value := float64(r.Goals)*1.8 + float64(r.Assists)*0.9 + float64(r.Shots)*0.08

	switch {
	case r.Goals >= 3:
		value += 1.5
	case r.Goals == 2:
		value += 0.7
	}

	if r.GameWinningGoals > 0 {
		value += 0.8
	}

	if share, ok := teamShare(r); ok {
		switch {
		case share >= 0.75:
			value += 0.6
		case share >= 0.5:
			value += 0.4
		case share >= 0.33:
			value += 0.2
		}
	}

	if shooting, ok := stats.ShootingPercentage(r); ok && r.Goals >= 2 && shooting > 25 {
		value += 0.5
	}

	return value
}

// wingerTOIFactor scales to 20 minutes; exceptional games are kept near 1
func wingerTOIFactor(toi int, rawProduction float64) float64 {
	factor := 20 / math.Max(1, math.Min(float64(toi), 45))
	if rawProduction > 5 {
		factor = clip(factor, 0.9, 1.0)
	}
	return factor
}

func wingerDefensive(r models.StatRecord, factor float64) float64 {
	excess := math.Max(0, float64(r.Giveaways)-float64(r.PossessionSecs)/25)
	penalty := excess * 0.15
	if r.Goals >= 2 || stats.Points(r) >= 3 {
		penalty /= 2
	}
	value := float64(r.Takeaways)*0.5 + float64(r.Interceptions)*0.3 - penalty
	return clip(0.5+value*factor, 0, 1.5)
}

// tieredPlusMinus is shared by wingers and defensemen
func tieredPlusMinus(r models.StatRecord) float64 {
	if r.TOI < 5 {
		return 0.75
	}
	switch pm := r.PlusMinus; {
	case pm >= 3:
		return 1.5
	case pm >= 1:
		return 1.0
	case pm == 0:
		return 0.75
	case pm >= -2:
		return 0.4
	default:
		return 0
	}
}
