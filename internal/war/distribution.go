package war

import (
	"sort"

	"github.com/yourusername/rinkwar/internal/models"
)

// PositionSummary describes the WAR spread of one position group
type PositionSummary struct {
	Position    models.DetailedPosition `json:"detailed_position"`
	Players     int                     `json:"players"`
	MeanWAR     float64                 `json:"mean_war"`
	MedianWAR   float64                 `json:"median_war"`
	TopPlayer   string                  `json:"top_player"`
	TopPlayerID string                  `json:"top_player_id"`
	TopWAR      float64                 `json:"top_war"`
}

// AnalyzeDistribution summarizes season rows per position, in the fixed
// position order. Positions without players are left out.
func AnalyzeDistribution(rows []models.PlayerSeasonWAR) []PositionSummary {
	byPosition := make(map[models.DetailedPosition][]models.PlayerSeasonWAR)
	for _, row := range rows {
		byPosition[row.Position] = append(byPosition[row.Position], row)
	}

	var summaries []PositionSummary
	for _, pos := range models.DetailedPositions {
		group := byPosition[pos]
		if len(group) == 0 {
			continue
		}

		values := make([]float64, len(group))
		sum := 0.0
		top := group[0]
		for i, row := range group {
			values[i] = row.WARValue
			sum += row.WARValue
			if row.WARValue > top.WARValue {
				top = row
			}
		}

		summaries = append(summaries, PositionSummary{
			Position:    pos,
			Players:     len(group),
			MeanWAR:     sum / float64(len(group)),
			MedianWAR:   median(values),
			TopPlayer:   top.PlayerName,
			TopPlayerID: top.PlayerID,
			TopWAR:      top.WARValue,
		})
	}
	return summaries
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
