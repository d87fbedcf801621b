package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/models"
)

// SeasonValidator flags normalized records whose stats look inconsistent.
// Findings are advisory: flagged records are still valued.
type SeasonValidator struct {
	logger *logger.IngestLogger
}

// DuplicateGame is a player that appears more than once in one match
type DuplicateGame struct {
	PlayerID string
	MatchID  string
	Count    int
}

// NewSeasonValidator creates a new season validator
func NewSeasonValidator(log *logrus.Logger) *SeasonValidator {
	if log == nil {
		log = logrus.New()
	}
	return &SeasonValidator{logger: logger.NewIngestLogger(log)}
}

// ValidateRecord returns the consistency problems of one player-game
func (v *SeasonValidator) ValidateRecord(r models.StatRecord) []string {
	var problems []string

	if r.TOI < 0 || r.TOISeconds < 0 {
		problems = append(problems, fmt.Sprintf("negative time on ice (toi=%d, toiseconds=%d)", r.TOI, r.TOISeconds))
	}
	if r.TOI > 0 && r.TOISeconds > 0 && absInt(r.TOI*60-r.TOISeconds) > 60 {
		problems = append(problems, fmt.Sprintf("toi %d min disagrees with toiseconds %d", r.TOI, r.TOISeconds))
	}
	if r.Shots > r.ShotAttempts && r.ShotAttempts > 0 {
		problems = append(problems, fmt.Sprintf("shots %d exceed shot attempts %d", r.Shots, r.ShotAttempts))
	}
	if r.Goals > r.Shots && r.Shots > 0 {
		problems = append(problems, fmt.Sprintf("goals %d exceed shots %d", r.Goals, r.Shots))
	}
	if r.Passes > r.PassAttempts && r.PassAttempts > 0 {
		problems = append(problems, fmt.Sprintf("passes %d exceed pass attempts %d", r.Passes, r.PassAttempts))
	}

	if r.Role() == models.RoleGoalie {
		if r.Saves+r.GoalsAgainst > r.ShotsFaced {
			problems = append(problems, fmt.Sprintf("saves %d plus goals against %d exceed shots %d", r.Saves, r.GoalsAgainst, r.ShotsFaced))
		}
		if r.GoalieSavePct < 0 || r.GoalieSavePct > 1 {
			problems = append(problems, fmt.Sprintf("save percentage %.3f outside 0-1", r.GoalieSavePct))
		}
	}

	return problems
}

// FindDuplicates lists players recorded more than once in the same match,
// in first-seen order
func (v *SeasonValidator) FindDuplicates(records []models.StatRecord) []DuplicateGame {
	type gameKey struct{ player, match string }

	counts := make(map[gameKey]int, len(records))
	var order []gameKey
	for _, r := range records {
		k := gameKey{player: r.PlayerID, match: r.MatchID}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	var duplicates []DuplicateGame
	for _, k := range order {
		if counts[k] > 1 {
			duplicates = append(duplicates, DuplicateGame{PlayerID: k.player, MatchID: k.match, Count: counts[k]})
		}
	}
	return duplicates
}

// Check logs every finding of a season and returns how many records were
// flagged
func (v *SeasonValidator) Check(records []models.StatRecord) int {
	flagged := 0
	for _, r := range records {
		problems := v.ValidateRecord(r)
		if len(problems) == 0 {
			continue
		}
		flagged++
		v.logger.WithFields(logrus.Fields{
			"player_id": r.PlayerID,
			"match_id":  r.MatchID,
			"problems":  problems,
		}).Warn("Inconsistent player-game stats")
	}

	for _, d := range v.FindDuplicates(records) {
		v.logger.WithFields(logrus.Fields{
			"player_id": d.PlayerID,
			"match_id":  d.MatchID,
			"count":     d.Count,
		}).Warn("Player recorded more than once in a match")
	}
	return flagged
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
