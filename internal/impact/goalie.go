package impact

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
)

const goalieBase = 5.0

func goalieComponents(r models.StatRecord) []Component {
	shots := r.ShotsFaced
	components := []Component{{Name: "base", Value: goalieBase}}

	// No shots faced: save percentage is undefined, so neither the save
	// bonus nor the goals-against penalty apply.
	if shots > 0 {
		savePct := r.GoalieSavePct * 100
		if savePct == 100 {
			components = append(components, Component{Name: "perfect_game", Value: perfectGameBonus(shots)})
		} else {
			components = append(components, Component{Name: "save", Value: saveBonus(savePct) * volumeModifier(shots)})
		}

		if r.GoalsAgainst == 0 {
			components = append(components, Component{Name: "shutout", Value: shutoutBonus(shots)})
		}
	}

	specialSaves := r.BreakawaySaves + r.PenaltyShotSaves + r.DesperationSaves
	if specialSaves > 0 {
		components = append(components, Component{Name: "special_saves", Value: math.Min(1.5, float64(specialSaves)*0.3)})
	}

	if r.PokeChecks > 0 {
		components = append(components, Component{Name: "poke_checks", Value: math.Min(0.5, float64(r.PokeChecks)*0.2)})
	}

	if shots >= 10 {
		expected := float64(shots) * 0.175
		excess := math.Max(0, float64(r.GoalsAgainst)-expected)
		components = append(components, Component{Name: "goals_against", Value: -math.Min(1.5, excess*0.4)})
	}

	return components
}

func perfectGameBonus(shots int) float64 {
	switch {
	case shots >= 15:
		return 5.0
	case shots >= 10:
		return 4.5
	case shots >= 5:
		return 4.0
	default:
		return 3.0
	}
}

// saveBonus is piecewise linear over save percentage bands
func saveBonus(savePct float64) float64 {
	switch {
	case savePct >= 90:
		return 4.0 + (savePct-90)/10
	case savePct >= 80:
		return 2.5 + (savePct-80)/10*1.5
	case savePct >= 76:
		return 1.5 + (savePct-76)/4*1.0
	case savePct >= 70:
		return 0.5 + (savePct-70)/6*1.0
	case savePct >= 60:
		return -1.0 + (savePct-60)/10*1.5
	default:
		return -2.5
	}
}

func volumeModifier(shots int) float64 {
	switch {
	case shots >= 20:
		return 1.2
	case shots >= 10:
		return 1.0
	case shots >= 5:
		return 0.8
	default:
		return 0.6
	}
}

func shutoutBonus(shots int) float64 {
	switch {
	case shots >= 15:
		return 1.0
	case shots >= 8:
		return 0.7
	default:
		return 0.5
	}
}
