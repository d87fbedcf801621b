package impact

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

func centerComponents(r models.StatRecord) []Component {
	return []Component{
		{Name: "faceoff", Value: centerFaceoff(r)},
		{Name: "offensive", Value: centerOffensive(r)},
		{Name: "puck_management", Value: math.Min(2.0, stats.PuckManagementRating(r)/5)},
		{Name: "defensive", Value: centerDefensive(stats.NetDefensiveContribution(r))},
		{Name: "plus_minus", Value: centerPlusMinus(r)},
		{Name: "special_teams", Value: math.Min(1.0, float64(r.PowerPlayGoals)*0.5+float64(r.ShortHandedGoals)*0.7+float64(r.PKClearZone)*0.2)},
		{Name: "context", Value: centerContext(r)},
	}
}

func centerFaceoff(r models.StatRecord) float64 {
	if stats.FaceoffsTotal(r) < 5 {
		return 0.75
	}
	pct, _ := stats.FaceoffPercentage(r)
	return math.Min(1.5, 0.5+math.Min(1.5, pct/100*2))
}

func centerOffensive(r models.StatRecord) float64 {
	value := (float64(r.Goals)*1.2 + float64(r.Assists)*0.7 + float64(r.Shots)*0.1) * toiScale(r.TOI)

	if share, ok := teamShare(r); ok {
		switch {
		case share >= 0.75:
			value += 0.5
		case share >= 0.5:
			value += 0.3
		case share >= 0.3:
			value += 0.15
		}
	}

	return math.Min(3.5, value)
}

func centerDefensive(ndc int) float64 {
	switch {
	case ndc >= 10:
		return 2.0
	case ndc >= 5:
		return 1.5
	case ndc >= 0:
		return 1.0
	case ndc >= -5:
		return 0.5
	case ndc >= -10:
		return 0.25
	default:
		return 0
	}
}

func centerPlusMinus(r models.StatRecord) float64 {
	if r.TOI < 5 {
		return 0.5
	}
	switch pm := r.PlusMinus; {
	case pm >= 3:
		return 1.0
	case pm >= 1:
		return 0.75
	case pm == 0:
		return 0.5
	case pm >= -2:
		return 0.25
	default:
		return 0
	}
}

func centerContext(r models.StatRecord) float64 {
	value := 0.0
	switch diff := scoreDifferential(r); {
	case diff <= 1:
		value += 0.4
	case diff <= 2:
		value += 0.2
	}
	if r.IsWin() {
		value += 0.3
	}
	return value
}
