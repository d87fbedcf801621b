package impact

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

func defensemanComponents(r models.StatRecord) []Component {
	return []Component{
		{Name: "puck_management", Value: math.Min(2.0, stats.PuckManagementRating(r)/5)},
		{Name: "defense_rating", Value: math.Min(1.5, r.RatingDefense/67)},
		{Name: "net_defense", Value: defensemanNetDefense(stats.NetDefensiveContribution(r))},
		{Name: "passing", Value: defensemanPassing(r)},
		{Name: "plus_minus", Value: tieredPlusMinus(r)},
		{Name: "physical", Value: math.Min(1.0, stats.DefensiveActionsPerMinute(r)/0.5)},
		{Name: "offensive", Value: defensemanOffensive(r)},
		{Name: "discipline", Value: clip(0.25*float64(stats.PenaltyDifferential(r)), -0.5, 0.5)},
		{Name: "special_teams", Value: math.Min(0.5, float64(r.PowerPlayGoals)*0.3+float64(r.ShortHandedGoals)*0.5+float64(r.PKClearZone)*0.1)},
		{Name: "context", Value: defensemanContext(r)},
	}
}

// defensemanNetDefense interpolates within each band of net defensive plays
func defensemanNetDefense(ndc int) float64 {
	n := float64(ndc)
	switch {
	case ndc >= 10:
		return 2.5
	case ndc >= 5:
		return 1.8 + (n-5)*0.14
	case ndc >= 0:
		return 1.0 + n*0.16
	case ndc >= -5:
		return 0.4 + (n+5)*0.12
	default:
		return 0.2
	}
}

func defensemanPassing(r models.StatRecord) float64 {
	if r.PassAttempts < 5 {
		return 0.75
	}
	pct, _ := stats.PassingPercentage(r)
	volume := math.Min(1.0, 0.5+float64(r.PassAttempts)/40)
	return math.Min(1.5, pct/100*1.5*volume)
}

func defensemanOffensive(r models.StatRecord) float64 {
	switch points := stats.Points(r); {
	case points >= 3:
		return 1.5
	case points >= 2:
		return 1.0
	case points == 1:
		return 0.6
	default:
		return math.Min(0.3, float64(r.Shots)*0.1)
	}
}

func defensemanContext(r models.StatRecord) float64 {
	value := 0.0
	switch diff := scoreDifferential(r); {
	case diff <= 1:
		value += 0.3
	case diff <= 2:
		value += 0.15
	}
	if r.PlusMinus > 0 {
		value += 0.2
	}
	return value
}
