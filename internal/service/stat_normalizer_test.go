package service

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rinkwar/internal/models"
)

func newTestNormalizer() *StatNormalizer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStatNormalizer(log)
}

// rawRecord mirrors one flattened EA player entry; EA sends numbers as strings
func rawRecord() map[string]interface{} {
	return map[string]interface{}{
		"player_id":          "1001",
		"match_id":           "m-1",
		"club_id":            "500",
		"class":              "12",
		"position":           "center",
		"posSorted":          "0",
		"playername":         "Skater",
		"clientPlatform":     "ps5",
		"playerLevel":        "40",
		"isGuest":            "0",
		"player_dnf":         "0",
		"pNhlOnlineGameType": "5",
		"teamId":             "20",
		"teamSide":           "1",
		"opponentClubId":     "600",
		"opponentTeamId":     "21",
		"opponentScore":      "2",
		"score":              "3",
		"ratingDefense":      "60.00",
		"ratingOffense":      "80.00",
		"ratingTeamplay":     "70.00",
		"toi":                "20",
		"toiseconds":         "1200",
		"skassists":          "2",
		"skbs":               "2",
		"skdeflections":      "0",
		"skfol":              "2",
		"skfopct":            "80.00",
		"skfow":              "8",
		"skgiveaways":        "2",
		"skgoals":            "1",
		"skgwg":              "0",
		"skhits":             "3",
		"skinterceptions":    "3",
		"skpassattempts":     "20",
		"skpasses":           "15",
		"skpasspct":          "75.00",
		"skpenaltiesdrawn":   "1",
		"skpim":              "2",
		"skpkclearzone":      "0",
		"skplusmin":          "1",
		"skpossession":       "120",
		"skppg":              "0",
		"sksaucerpasses":     "1",
		"skshg":              "0",
		"skshotattempts":     "6",
		"skshotonnetpct":     "66.67",
		"skshotpct":          "25.00",
		"skshots":            "4",
		"sktakeaways":        "4",
		"glbrksavepct":       "0.00",
		"glbrksaves":         "0",
		"glbrkshots":         "0",
		"gldsaves":           "0",
		"glga":               "0",
		"glgaa":              "0.00",
		"glpensavepct":       "0.00",
		"glpensaves":         "0",
		"glpenshots":         "0",
		"glpkclearzone":      "0",
		"glpokechecks":       "0",
		"glsavepct":          "0.00",
		"glsaves":            "0",
		"glshots":            "0",
		"glsoperiods":        "0",
	}
}

func TestNormalizeAcceptsEAPayload(t *testing.T) {
	n := newTestNormalizer()

	record, err := n.Normalize(rawRecord())
	require.NoError(t, err)

	assert.Equal(t, "1001", record.PlayerID)
	assert.Equal(t, "Skater", record.PlayerName)
	assert.Equal(t, models.PositionCenter, record.Position)
	assert.Equal(t, 12, record.PlayerLevel)
	assert.Equal(t, 40, record.PlayerLevelDisplay)
	assert.Equal(t, 1200, record.TOISeconds)
	assert.Equal(t, 60.0, record.RatingDefense)
	assert.Equal(t, 80.0, record.FaceoffPct)
	assert.Equal(t, 8, record.FaceoffsWon)
	assert.Equal(t, "600", record.OpponentClubID)

	// derived from the scoreline and team side
	assert.Equal(t, models.GameResultWin, record.Result)
	assert.Equal(t, models.VenueAway, record.Venue)
}

func TestNormalizeIdentityKeyForms(t *testing.T) {
	n := newTestNormalizer()

	raw := rawRecord()
	delete(raw, "player_id")
	delete(raw, "match_id")
	delete(raw, "club_id")
	raw["playerId"] = "1001"
	raw["matchId"] = "m-1"
	raw["clubId"] = float64(500)

	record, err := n.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "1001", record.PlayerID)
	assert.Equal(t, "m-1", record.MatchID)
	assert.Equal(t, "500", record.ClubID)
}

func TestNormalizeMissingRequiredField(t *testing.T) {
	n := newTestNormalizer()

	raw := rawRecord()
	delete(raw, "skgoals")

	_, err := n.Normalize(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "skgoals", verr.Field)
}

func TestNormalizeCoercion(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr bool
	}{
		{name: "numeric string", key: "skgoals", value: "3"},
		{name: "go int", key: "skgoals", value: 3},
		{name: "integral json float", key: "skgoals", value: float64(3)},
		{name: "json number", key: "skgoals", value: json.Number("3")},
		{name: "padded numeric string", key: "skgoals", value: " 3 "},
		{name: "fractional string for int", key: "skgoals", value: "2.5", wantErr: true},
		{name: "fractional float for int", key: "skgoals", value: 2.5, wantErr: true},
		{name: "boolean for int", key: "skgoals", value: true, wantErr: true},
		{name: "nested object", key: "skgoals", value: map[string]interface{}{"v": 1}, wantErr: true},
		{name: "word for int", key: "skgoals", value: "three", wantErr: true},
		{name: "json number past int64", key: "skgoals", value: json.Number("99999999999999999999"), wantErr: true},
		{name: "json number exponent past int64", key: "skgoals", value: json.Number("1e20"), wantErr: true},
		{name: "float past int64", key: "skgoals", value: 1e20, wantErr: true},
		{name: "float at two to the 63", key: "skgoals", value: math.Ldexp(1, 63), wantErr: true},
		{name: "negative float past int64", key: "skgoals", value: -1e20, wantErr: true},
		{name: "string past int64", key: "skgoals", value: "99999999999999999999", wantErr: true},
		{name: "json number exponent in range", key: "skgoals", value: json.Number("3e2")},
		{name: "float string", key: "skfopct", value: "55.5"},
		{name: "int for float", key: "skfopct", value: 55},
		{name: "nan for float", key: "skfopct", value: math.NaN(), wantErr: true},
		{name: "infinite string for float", key: "skfopct", value: "Inf", wantErr: true},
		{name: "boolean for float", key: "skfopct", value: false, wantErr: true},
		{name: "boolean for string", key: "position", value: true, wantErr: true},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawRecord()
			raw[tt.key] = tt.value

			_, err := n.Normalize(raw)
			if tt.wantErr {
				require.Error(t, err)
				var verr *models.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.key, verr.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeContextOverrides(t *testing.T) {
	n := newTestNormalizer()

	raw := rawRecord()
	raw["game_result"] = "loss"
	raw["home_away"] = "home"

	record, err := n.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, models.GameResultLoss, record.Result)
	assert.Equal(t, models.VenueHome, record.Venue)

	raw["game_result"] = "draw"
	_, err = n.Normalize(raw)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestNormalizeStructConstraints(t *testing.T) {
	n := newTestNormalizer()

	raw := rawRecord()
	raw["teamSide"] = "2"
	_, err := n.Normalize(raw)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "team_side", verr.Field)

	raw = rawRecord()
	raw["player_id"] = ""
	_, err = n.Normalize(raw)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "player_id", verr.Field)
}

func TestNormalizeKeepsUnknownPosition(t *testing.T) {
	n := newTestNormalizer()

	raw := rawRecord()
	raw["position"] = "rover"

	record, err := n.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, models.Position("rover"), record.Position)
	assert.Equal(t, models.RoleUnknown, record.Role())
}

func TestNormalizeBatchIsolatesBadRecords(t *testing.T) {
	n := newTestNormalizer()

	bad := rawRecord()
	bad["player_id"] = "2002"
	bad["skhits"] = "lots"

	second := rawRecord()
	second["match_id"] = "m-2"

	records, report := n.NormalizeBatch([]map[string]interface{}{rawRecord(), bad, second})

	assert.Len(t, records, 2)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].Index)
	assert.Equal(t, "2002", report.Errors[0].PlayerID)
	assert.Equal(t, "m-2", records[1].MatchID)
}

func TestCoerceIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int
		wantErr bool
	}{
		{name: "max int64 as json number", value: json.Number("9223372036854775807"), want: math.MaxInt64},
		{name: "min int64 as float", value: float64(math.MinInt64), want: math.MinInt64},
		{name: "overflowing json number", value: json.Number("99999999999999999999"), wantErr: true},
		{name: "overflowing float", value: 1e20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceInt(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
