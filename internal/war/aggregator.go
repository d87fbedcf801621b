package war

import (
	"math"
	"sort"

	"github.com/yourusername/rinkwar/internal/models"
)

// ImpactFactor scales WAR by how dominant the game was
func ImpactFactor(gameImpactScore float64) float64 {
	return math.Max(MinImpactFactor, math.Min(MaxImpactFactor, gameImpactScore/ImpactPivot))
}

// WinConversion returns adjusted WAR points per win for a position
func WinConversion(pos models.DetailedPosition) float64 {
	if CategoryOf(pos) == Goalie {
		return GoalieWinConversion
	}
	return SkaterWinConversion
}

// ValueGame applies context and impact adjustments to one player-game's
// components and converts the result to wins
func ValueGame(r models.StatRecord, pos models.DetailedPosition, score float64, components models.WARComponents) models.PlayerGameWAR {
	raw := components.Raw()

	context := 0.0
	if r.IsAway() {
		context = AwayGameBonus * raw
	}
	if r.IsWin() {
		context += WinBonus * raw
	}

	factor := ImpactFactor(score)
	adjusted := (raw + context) * factor

	return models.PlayerGameWAR{
		PlayerID:          r.PlayerID,
		PlayerName:        r.PlayerName,
		MatchID:           r.MatchID,
		Position:          pos,
		GameImpactScore:   score,
		Components:        components,
		RawWAR:            raw,
		ContextAdjustment: context,
		ImpactFactor:      factor,
		AdjustedWAR:       adjusted,
		WARValue:          adjusted / WinConversion(pos),
		Goals:             r.Goals,
		Assists:           r.Assists,
		PlusMinus:         r.PlusMinus,
	}
}

// Aggregate groups player-games by (player id, player name, position) into
// season rows, sorted by WAR descending
func Aggregate(games []models.PlayerGameWAR) []models.PlayerSeasonWAR {
	index := make(map[playerKey]int)
	var rows []models.PlayerSeasonWAR
	impactSums := make([]float64, 0)

	for _, g := range games {
		key := playerKey{g.PlayerID, g.PlayerName, g.Position}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.PlayerSeasonWAR{
				PlayerID:   g.PlayerID,
				PlayerName: g.PlayerName,
				Position:   g.Position,
			})
			impactSums = append(impactSums, 0)
		}

		row := &rows[i]
		row.WARValue += g.WARValue
		row.OffensiveWAR += g.Components.Offensive
		row.DefensiveWAR += g.Components.Defensive
		row.TeamplayWAR += g.Components.Teamplay
		row.GamesPlayed++
		row.Goals += g.Goals
		row.Assists += g.Assists
		row.PlusMinus += g.PlusMinus
		impactSums[i] += g.GameImpactScore
	}

	for i := range rows {
		row := &rows[i]
		row.WARPerGame = row.WARValue / float64(row.GamesPlayed)
		row.Points = row.Goals + row.Assists
		row.AvgGameImpact = impactSums[i] / float64(row.GamesPlayed)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WARValue != b.WARValue {
			return a.WARValue > b.WARValue
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.Position < b.Position
	})

	return rows
}
