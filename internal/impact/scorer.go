// Package impact computes the 0-10 Game Impact Score of one player-game.
//
// The score is a pure function of a single StatRecord. Each role has its own
// formula made of named components; the sum is clipped to [0, 10] and rounded
// to one decimal.
package impact

import (
	"math"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

const (
	// NeutralScore is returned for positions with no scoring formula
	NeutralScore = 5.0
	// MaxScore is the top of the impact scale
	MaxScore = 10.0
)

// Component is one named term of an impact formula
type Component struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Breakdown explains how a score was reached
type Breakdown struct {
	Role       models.Role `json:"-"`
	Components []Component `json:"components"`
	Total      float64     `json:"total"`
	Score      float64     `json:"score"`
}

// Component returns the value of a named component
func (b Breakdown) Component(name string) (float64, bool) {
	for _, c := range b.Components {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

// Score returns the game impact score of a record
func Score(r models.StatRecord) float64 {
	return Explain(r).Score
}

// Explain scores a record and returns the per-component breakdown
func Explain(r models.StatRecord) Breakdown {
	role := r.Role()

	var components []Component
	switch role {
	case models.RoleGoalie:
		components = goalieComponents(r)
	case models.RoleCenter:
		components = centerComponents(r)
	case models.RoleWinger:
		components = wingerComponents(r)
	case models.RoleDefenseman:
		components = defensemanComponents(r)
	default:
		return Breakdown{Role: role, Total: NeutralScore, Score: NeutralScore}
	}

	total := 0.0
	for _, c := range components {
		total += c.Value
	}

	return Breakdown{
		Role:       role,
		Components: components,
		Total:      total,
		Score:      finalize(total),
	}
}

// finalize clips to the impact scale and rounds to one decimal
func finalize(total float64) float64 {
	if math.IsNaN(total) {
		return 0
	}
	return stats.Round(clip(total, 0, MaxScore), 1)
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// toiScale normalizes a per-game count to 20 minutes of ice time
func toiScale(toi int) float64 {
	return 20 / math.Max(1, float64(toi))
}

// teamShare is the fraction of the club's goals the player had a point on
func teamShare(r models.StatRecord) (float64, bool) {
	if r.Score <= 0 {
		return 0, false
	}
	return float64(stats.Points(r)) / float64(r.Score), true
}

func scoreDifferential(r models.StatRecord) int {
	diff := r.Score - r.OpponentScore
	if diff < 0 {
		return -diff
	}
	return diff
}
