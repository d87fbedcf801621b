package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/metrics"
	"github.com/yourusername/rinkwar/internal/models"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
)

// fieldSpec maps one internal field to the raw keys that may carry it
type fieldSpec struct {
	name    string
	aliases []string
	kind    fieldKind
	setStr  func(*models.StatRecord, string)
	setInt  func(*models.StatRecord, int)
	setF64  func(*models.StatRecord, float64)
}

func stringField(name string, set func(*models.StatRecord, string), aliases ...string) fieldSpec {
	return fieldSpec{name: name, aliases: aliases, kind: kindString, setStr: set}
}

func intField(name string, set func(*models.StatRecord, int), aliases ...string) fieldSpec {
	return fieldSpec{name: name, aliases: aliases, kind: kindInt, setInt: set}
}

func floatField(name string, set func(*models.StatRecord, float64), aliases ...string) fieldSpec {
	return fieldSpec{name: name, aliases: aliases, kind: kindFloat, setF64: set}
}

// statFields is the fixed alias table. Every field is required.
var statFields = []fieldSpec{
	// Identity, added by the match flattener
	stringField("player_id", func(r *models.StatRecord, v string) { r.PlayerID = v }, "playerId"),
	stringField("match_id", func(r *models.StatRecord, v string) { r.MatchID = v }, "matchId"),
	stringField("club_id", func(r *models.StatRecord, v string) { r.ClubID = v }, "clubId"),

	// Player and game metadata
	intField("player_level", func(r *models.StatRecord, v int) { r.PlayerLevel = v }, "class"),
	stringField("position", func(r *models.StatRecord, v string) { r.Position = models.Position(v) }),
	intField("pos_sorted", func(r *models.StatRecord, v int) { r.PosSorted = v }, "posSorted"),
	stringField("player_name", func(r *models.StatRecord, v string) { r.PlayerName = v }, "playername", "playerName"),
	stringField("client_platform", func(r *models.StatRecord, v string) { r.ClientPlatform = v }, "clientPlatform"),
	intField("player_level_display", func(r *models.StatRecord, v int) { r.PlayerLevelDisplay = v }, "playerLevel"),
	intField("is_guest", func(r *models.StatRecord, v int) { r.IsGuest = v }, "isGuest"),
	intField("player_dnf", func(r *models.StatRecord, v int) { r.PlayerDNF = v }),
	stringField("pnhl_online_game_type", func(r *models.StatRecord, v string) { r.OnlineGameType = v }, "pNhlOnlineGameType"),

	// Team and scoreline
	intField("team_id", func(r *models.StatRecord, v int) { r.TeamID = v }, "teamId"),
	intField("team_side", func(r *models.StatRecord, v int) { r.TeamSide = v }, "teamSide"),
	stringField("opponent_club_id", func(r *models.StatRecord, v string) { r.OpponentClubID = v }, "opponentClubId"),
	intField("opponent_team_id", func(r *models.StatRecord, v int) { r.OpponentTeamID = v }, "opponentTeamId"),
	intField("opponent_score", func(r *models.StatRecord, v int) { r.OpponentScore = v }, "opponentScore"),
	intField("score", func(r *models.StatRecord, v int) { r.Score = v }),

	// Ratings
	floatField("rating_defense", func(r *models.StatRecord, v float64) { r.RatingDefense = v }, "ratingDefense"),
	floatField("rating_offense", func(r *models.StatRecord, v float64) { r.RatingOffense = v }, "ratingOffense"),
	floatField("rating_teamplay", func(r *models.StatRecord, v float64) { r.RatingTeamplay = v }, "ratingTeamplay"),

	// Time on ice
	intField("toi", func(r *models.StatRecord, v int) { r.TOI = v }),
	intField("toi_seconds", func(r *models.StatRecord, v int) { r.TOISeconds = v }, "toiseconds"),

	// Skater stats
	intField("skassists", func(r *models.StatRecord, v int) { r.Assists = v }),
	intField("skbs", func(r *models.StatRecord, v int) { r.BlockedShots = v }),
	intField("skdeflections", func(r *models.StatRecord, v int) { r.Deflections = v }),
	intField("skfol", func(r *models.StatRecord, v int) { r.FaceoffsLost = v }),
	floatField("skfopct", func(r *models.StatRecord, v float64) { r.FaceoffPct = v }),
	intField("skfow", func(r *models.StatRecord, v int) { r.FaceoffsWon = v }),
	intField("skgiveaways", func(r *models.StatRecord, v int) { r.Giveaways = v }),
	intField("skgoals", func(r *models.StatRecord, v int) { r.Goals = v }),
	intField("skgwg", func(r *models.StatRecord, v int) { r.GameWinningGoals = v }),
	intField("skhits", func(r *models.StatRecord, v int) { r.Hits = v }),
	intField("skinterceptions", func(r *models.StatRecord, v int) { r.Interceptions = v }),
	intField("skpassattempts", func(r *models.StatRecord, v int) { r.PassAttempts = v }),
	intField("skpasses", func(r *models.StatRecord, v int) { r.Passes = v }),
	floatField("skpasspct", func(r *models.StatRecord, v float64) { r.PassPct = v }),
	intField("skpenaltiesdrawn", func(r *models.StatRecord, v int) { r.PenaltiesDrawn = v }),
	intField("skpim", func(r *models.StatRecord, v int) { r.PenaltyMinutes = v }),
	intField("skpkclearzone", func(r *models.StatRecord, v int) { r.PKClearZone = v }),
	intField("skplusmin", func(r *models.StatRecord, v int) { r.PlusMinus = v }),
	intField("skpossession", func(r *models.StatRecord, v int) { r.PossessionSecs = v }),
	intField("skppg", func(r *models.StatRecord, v int) { r.PowerPlayGoals = v }),
	intField("sksaucerpasses", func(r *models.StatRecord, v int) { r.SaucerPasses = v }),
	intField("skshg", func(r *models.StatRecord, v int) { r.ShortHandedGoals = v }),
	intField("skshotattempts", func(r *models.StatRecord, v int) { r.ShotAttempts = v }),
	floatField("skshotonnetpct", func(r *models.StatRecord, v float64) { r.ShotOnNetPct = v }),
	floatField("skshotpct", func(r *models.StatRecord, v float64) { r.ShotPct = v }),
	intField("skshots", func(r *models.StatRecord, v int) { r.Shots = v }),
	intField("sktakeaways", func(r *models.StatRecord, v int) { r.Takeaways = v }),

	// Goalie stats
	floatField("glbrksavepct", func(r *models.StatRecord, v float64) { r.BreakawaySavePct = v }),
	intField("glbrksaves", func(r *models.StatRecord, v int) { r.BreakawaySaves = v }),
	intField("glbrkshots", func(r *models.StatRecord, v int) { r.BreakawayShots = v }),
	intField("gldsaves", func(r *models.StatRecord, v int) { r.DesperationSaves = v }),
	intField("glga", func(r *models.StatRecord, v int) { r.GoalsAgainst = v }),
	floatField("glgaa", func(r *models.StatRecord, v float64) { r.GoalsAgainstAverage = v }),
	floatField("glpensavepct", func(r *models.StatRecord, v float64) { r.PenaltyShotSavePct = v }),
	intField("glpensaves", func(r *models.StatRecord, v int) { r.PenaltyShotSaves = v }),
	intField("glpenshots", func(r *models.StatRecord, v int) { r.PenaltyShots = v }),
	intField("glpkclearzone", func(r *models.StatRecord, v int) { r.GoaliePKClearZone = v }),
	intField("glpokechecks", func(r *models.StatRecord, v int) { r.PokeChecks = v }),
	floatField("glsavepct", func(r *models.StatRecord, v float64) { r.GoalieSavePct = v }),
	intField("glsaves", func(r *models.StatRecord, v int) { r.Saves = v }),
	intField("glshots", func(r *models.StatRecord, v int) { r.ShotsFaced = v }),
	intField("glsoperiods", func(r *models.StatRecord, v int) { r.ShutoutPeriods = v }),
}

// Optional context keys written by the match flattener
const (
	keyGameResult = "game_result"
	keyHomeAway   = "home_away"
)

// RecordError ties a rejected raw record to its position in the batch
type RecordError struct {
	Index    int
	PlayerID string
	Err      error
}

// BatchReport summarizes one NormalizeBatch call
type BatchReport struct {
	Accepted int
	Rejected int
	Errors   []RecordError
}

// StatNormalizer converts raw EA player-game mappings into StatRecords
type StatNormalizer struct {
	validate *validator.Validate
	logger   *logger.IngestLogger
}

// NewStatNormalizer creates a new stat normalizer
func NewStatNormalizer(log *logrus.Logger) *StatNormalizer {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StatNormalizer{
		validate: v,
		logger:   logger.NewIngestLogger(log),
	}
}

// Normalize builds one StatRecord from a raw mapping. It fails with a
// *models.ValidationError when a required field is missing or a value cannot
// be coerced to the field's type.
func (n *StatNormalizer) Normalize(raw map[string]interface{}) (models.StatRecord, error) {
	var record models.StatRecord

	for _, spec := range statFields {
		key, value, ok := lookup(raw, spec)
		if !ok {
			return models.StatRecord{}, &models.ValidationError{Field: spec.name, Reason: "required field is missing"}
		}

		switch spec.kind {
		case kindString:
			s, err := coerceString(value)
			if err != nil {
				return models.StatRecord{}, &models.ValidationError{Field: key, Value: value, Reason: err.Error()}
			}
			spec.setStr(&record, s)
		case kindInt:
			i, err := coerceInt(value)
			if err != nil {
				return models.StatRecord{}, &models.ValidationError{Field: key, Value: value, Reason: err.Error()}
			}
			spec.setInt(&record, i)
		case kindFloat:
			f, err := coerceFloat(value)
			if err != nil {
				return models.StatRecord{}, &models.ValidationError{Field: key, Value: value, Reason: err.Error()}
			}
			spec.setF64(&record, f)
		}
	}

	if err := applyContext(&record, raw); err != nil {
		return models.StatRecord{}, err
	}

	if err := n.validate.Struct(record); err != nil {
		return models.StatRecord{}, toValidationError(err)
	}

	return record, nil
}

// NormalizeBatch normalizes every raw record independently. A rejected record
// is reported and never aborts the batch.
func (n *StatNormalizer) NormalizeBatch(raws []map[string]interface{}) ([]models.StatRecord, BatchReport) {
	records := make([]models.StatRecord, 0, len(raws))
	report := BatchReport{}

	for i, raw := range raws {
		record, err := n.Normalize(raw)
		if err != nil {
			playerID, _ := rawPlayerID(raw)
			report.Rejected++
			report.Errors = append(report.Errors, RecordError{Index: i, PlayerID: playerID, Err: err})
			metrics.RecordNormalized("rejected")
			n.logger.LogRejectedRecord(i, playerID, err)
			continue
		}
		report.Accepted++
		metrics.RecordNormalized("accepted")
		records = append(records, record)
	}

	n.logger.LogBatch(report.Accepted, report.Rejected)
	return records, report
}

// applyContext derives the game result and venue from the scoreline, then lets
// explicit game_result/home_away keys override them
func applyContext(record *models.StatRecord, raw map[string]interface{}) error {
	record.Result = models.GameResultLoss
	if record.Score > record.OpponentScore {
		record.Result = models.GameResultWin
	}
	record.Venue = models.VenueHome
	if record.TeamSide != 0 {
		record.Venue = models.VenueAway
	}

	if v, ok := raw[keyGameResult]; ok && v != nil {
		s, isString := v.(string)
		if !isString || (s != string(models.GameResultWin) && s != string(models.GameResultLoss)) {
			return &models.ValidationError{Field: keyGameResult, Value: v, Reason: "must be win or loss"}
		}
		record.Result = models.GameResult(s)
	}

	if v, ok := raw[keyHomeAway]; ok && v != nil {
		s, isString := v.(string)
		if !isString || (s != string(models.VenueHome) && s != string(models.VenueAway)) {
			return &models.ValidationError{Field: keyHomeAway, Value: v, Reason: "must be home or away"}
		}
		record.Venue = models.Venue(s)
	}

	return nil
}

func lookup(raw map[string]interface{}, spec fieldSpec) (string, interface{}, bool) {
	if v, ok := raw[spec.name]; ok && v != nil {
		return spec.name, v, true
	}
	for _, alias := range spec.aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return alias, v, true
		}
	}
	return "", nil, false
}

func rawPlayerID(raw map[string]interface{}) (string, bool) {
	for _, key := range []string{"player_id", "playerId"} {
		if v, ok := raw[key]; ok {
			if s, err := coerceString(v); err == nil {
				return s, true
			}
		}
	}
	return "", false
}

func coerceString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		if _, err := t.Int64(); err != nil {
			return "", fmt.Errorf("identifier %q is not an integer", t.String())
		}
		return t.String(), nil
	case int, int32, int64, float64:
		i, err := coerceInt(t)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(i), nil
	default:
		return "", fmt.Errorf("expected a string")
	}
}

func coerceInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case float64:
		return intFromFloat(t)
	case json.Number:
		i, err := t.Int64()
		if err == nil {
			return int(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("integer out of range")
		}
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		return intFromFloat(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a base-10 integer")
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("expected an integer")
	}
}

// 2^63, the first float64 past the int64 range
var maxIntFloat = math.Ldexp(1, 63)

func intFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral value for an integer field")
	}
	if f < math.MinInt64 || f >= maxIntFloat {
		return 0, fmt.Errorf("integer out of range")
	}
	return int(f), nil
}

func coerceFloat(v interface{}) (float64, error) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		f = parsed
	default:
		return 0, fmt.Errorf("expected a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// toValidationError reports the first failed struct constraint
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &models.ValidationError{
			Field:  fe.Field(),
			Value:  fe.Value(),
			Reason: fmt.Sprintf("failed '%s' constraint", fe.Tag()),
		}
	}
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}
