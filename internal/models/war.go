package models

// WARComponents holds the three replacement-adjusted sub-scores of one
// player-game. Values below zero mean below replacement.
type WARComponents struct {
	Offensive float64 `json:"offensive_war"`
	Defensive float64 `json:"defensive_war"`
	Teamplay  float64 `json:"teamplay_war"`
}

// Raw returns the unadjusted sum of the components
func (c WARComponents) Raw() float64 {
	return c.Offensive + c.Defensive + c.Teamplay
}

// PlayerGameWAR is the valuation of one player-game
type PlayerGameWAR struct {
	PlayerID          string           `json:"player_id"`
	PlayerName        string           `json:"player_name"`
	MatchID           string           `json:"match_id"`
	Position          DetailedPosition `json:"detailed_position"`
	GameImpactScore   float64          `json:"game_impact_score"`
	Components        WARComponents    `json:"components"`
	RawWAR            float64          `json:"raw_war"`
	ContextAdjustment float64          `json:"context_adjustment"`
	ImpactFactor      float64          `json:"impact_factor"`
	AdjustedWAR       float64          `json:"adjusted_war"`
	WARValue          float64          `json:"war_value"`
	Goals             int              `json:"skgoals"`
	Assists           int              `json:"skassists"`
	PlusMinus         int              `json:"skplusmin"`
}

// PlayerSeasonWAR is the season aggregate for one player at one position
type PlayerSeasonWAR struct {
	PlayerID      string           `db:"player_id" json:"player_id"`
	PlayerName    string           `db:"player_name" json:"player_name"`
	Position      DetailedPosition `db:"detailed_position" json:"detailed_position"`
	WARValue      float64          `db:"war_value" json:"war_value"`
	OffensiveWAR  float64          `db:"offensive_war" json:"offensive_war"`
	DefensiveWAR  float64          `db:"defensive_war" json:"defensive_war"`
	TeamplayWAR   float64          `db:"teamplay_war" json:"teamplay_war"`
	GamesPlayed   int              `db:"games_played" json:"games_played"`
	WARPerGame    float64          `db:"war_per_game" json:"war_per_game"`
	Goals         int              `db:"goals" json:"skgoals"`
	Assists       int              `db:"assists" json:"skassists"`
	Points        int              `db:"points" json:"points"`
	PlusMinus     int              `db:"plus_minus" json:"skplusmin"`
	AvgGameImpact float64          `db:"avg_game_impact" json:"avg_game_impact"`
}
