package models

// StatRecord is one player's statistics for one game, as reported by the EA
// clubs API. It is built once by the normalizer and passed by value; derived
// fields live in the stats package and are always recomputed from these raw
// fields.
type StatRecord struct {
	// Identity
	PlayerID       string `json:"player_id" validate:"required"`
	PlayerName     string `json:"player_name" validate:"required"`
	MatchID        string `json:"match_id" validate:"required"`
	ClubID         string `json:"club_id" validate:"required"`
	OpponentClubID string `json:"opponent_club_id"`

	// Player and game metadata
	Position           Position `json:"position" validate:"required"`
	PosSorted          int      `json:"pos_sorted" validate:"gte=0"`
	PlayerLevel        int      `json:"player_level"`
	PlayerLevelDisplay int      `json:"player_level_display"`
	ClientPlatform     string   `json:"client_platform"`
	IsGuest            int      `json:"is_guest"`
	PlayerDNF          int      `json:"player_dnf"`
	OnlineGameType     string   `json:"pnhl_online_game_type"`

	// Team and scoreline
	TeamID         int        `json:"team_id"`
	TeamSide       int        `json:"team_side" validate:"oneof=0 1"`
	OpponentTeamID int        `json:"opponent_team_id"`
	Score          int        `json:"score"`
	OpponentScore  int        `json:"opponent_score"`
	Result         GameResult `json:"game_result" validate:"oneof=win loss"`
	Venue          Venue      `json:"home_away" validate:"oneof=home away"`

	// EA ratings, 0-100
	RatingDefense  float64 `json:"rating_defense"`
	RatingOffense  float64 `json:"rating_offense"`
	RatingTeamplay float64 `json:"rating_teamplay"`

	// Time on ice
	TOI        int `json:"toi"`
	TOISeconds int `json:"toi_seconds"`

	// Skater stats
	Assists          int     `json:"skassists"`
	BlockedShots     int     `json:"skbs"`
	Deflections      int     `json:"skdeflections"`
	FaceoffsLost     int     `json:"skfol"`
	FaceoffPct       float64 `json:"skfopct"`
	FaceoffsWon      int     `json:"skfow"`
	Giveaways        int     `json:"skgiveaways"`
	Goals            int     `json:"skgoals"`
	GameWinningGoals int     `json:"skgwg"`
	Hits             int     `json:"skhits"`
	Interceptions    int     `json:"skinterceptions"`
	PassAttempts     int     `json:"skpassattempts"`
	Passes           int     `json:"skpasses"`
	PassPct          float64 `json:"skpasspct"`
	PenaltiesDrawn   int     `json:"skpenaltiesdrawn"`
	PenaltyMinutes   int     `json:"skpim"`
	PKClearZone      int     `json:"skpkclearzone"`
	PlusMinus        int     `json:"skplusmin"`
	PossessionSecs   int     `json:"skpossession"`
	PowerPlayGoals   int     `json:"skppg"`
	SaucerPasses     int     `json:"sksaucerpasses"`
	ShortHandedGoals int     `json:"skshg"`
	ShotAttempts     int     `json:"skshotattempts"`
	ShotOnNetPct     float64 `json:"skshotonnetpct"`
	ShotPct          float64 `json:"skshotpct"`
	Shots            int     `json:"skshots"`
	Takeaways        int     `json:"sktakeaways"`

	// Goalie stats. GoalieSavePct is a 0-1 fraction as EA reports it.
	BreakawaySavePct    float64 `json:"glbrksavepct"`
	BreakawaySaves      int     `json:"glbrksaves"`
	BreakawayShots      int     `json:"glbrkshots"`
	DesperationSaves    int     `json:"gldsaves"`
	GoalsAgainst        int     `json:"glga"`
	GoalsAgainstAverage float64 `json:"glgaa"`
	PenaltyShotSavePct  float64 `json:"glpensavepct"`
	PenaltyShotSaves    int     `json:"glpensaves"`
	PenaltyShots        int     `json:"glpenshots"`
	GoaliePKClearZone   int     `json:"glpkclearzone"`
	PokeChecks          int     `json:"glpokechecks"`
	GoalieSavePct       float64 `json:"glsavepct"`
	Saves               int     `json:"glsaves"`
	ShotsFaced          int     `json:"glshots"`
	ShutoutPeriods      int     `json:"glsoperiods"`
}

// Key identifies the player-game
func (r StatRecord) Key() string {
	return r.MatchID + ":" + r.ClubID + ":" + r.PlayerID
}

// Role returns the scoring role for the record's position tag
func (r StatRecord) Role() Role {
	return RoleOf(r.Position)
}

// IsAway reports whether the player's club played on the road
func (r StatRecord) IsAway() bool {
	return r.Venue == VenueAway
}

// IsWin reports whether the player's club won the game
func (r StatRecord) IsWin() bool {
	return r.Result == GameResultWin
}
