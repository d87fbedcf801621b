package models

// Position is the raw EA position tag of a player-game
type Position string

const (
	PositionCenter     Position = "center"
	PositionLeftWing   Position = "leftWing"
	PositionRightWing  Position = "rightWing"
	PositionDefenseMen Position = "defenseMen"
	PositionGoalie     Position = "goalie"
)

// IsKnown reports whether the tag is one of the five EA positions
func (p Position) IsKnown() bool {
	switch p {
	case PositionCenter, PositionLeftWing, PositionRightWing, PositionDefenseMen, PositionGoalie:
		return true
	default:
		return false
	}
}

// DetailedPosition separates left and right defense
type DetailedPosition string

const (
	DetailedCenter       DetailedPosition = "center"
	DetailedLeftWing     DetailedPosition = "leftWing"
	DetailedRightWing    DetailedPosition = "rightWing"
	DetailedLeftDefense  DetailedPosition = "leftDefense"
	DetailedRightDefense DetailedPosition = "rightDefense"
	DetailedGoalie       DetailedPosition = "goalie"
)

// DetailedPositions lists the six valuation groups in a fixed order
var DetailedPositions = []DetailedPosition{
	DetailedCenter,
	DetailedLeftWing,
	DetailedRightWing,
	DetailedLeftDefense,
	DetailedRightDefense,
	DetailedGoalie,
}

// IsGoalie reports whether the group is the goalie group
func (d DetailedPosition) IsGoalie() bool {
	return d == DetailedGoalie
}

// Role selects the game impact algorithm for a record
type Role int

const (
	RoleUnknown Role = iota
	RoleGoalie
	RoleCenter
	RoleWinger
	RoleDefenseman
)

// String returns the role name used in logs and metric labels
func (r Role) String() string {
	switch r {
	case RoleGoalie:
		return "goalie"
	case RoleCenter:
		return "center"
	case RoleWinger:
		return "winger"
	case RoleDefenseman:
		return "defenseman"
	default:
		return "unknown"
	}
}

// RoleOf maps a raw position tag to its scoring role
func RoleOf(p Position) Role {
	switch p {
	case PositionGoalie:
		return RoleGoalie
	case PositionCenter:
		return RoleCenter
	case PositionLeftWing, PositionRightWing:
		return RoleWinger
	case PositionDefenseMen:
		return RoleDefenseman
	default:
		return RoleUnknown
	}
}

// GameResult is the outcome of a game from the player's club perspective
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLoss GameResult = "loss"
)

// Venue records whether the player's club was home or away
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)
