// Package report renders season WAR results for terminals, files and
// spreadsheets.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/war"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// SeasonCSVHeader is the fixed column order of season exports
var SeasonCSVHeader = []string{
	"player_id", "player_name", "detailed_position", "war_value",
	"offensive_war", "defensive_war", "teamplay_war", "games_played",
	"war_per_game", "skgoals", "skassists", "points", "skplusmin", "avg_game_impact",
}

// GameCSVHeader is the fixed column order of per-game exports
var GameCSVHeader = []string{
	"player_id", "player_name", "match_id", "detailed_position", "game_impact_score",
	"offensive_war", "defensive_war", "teamplay_war", "raw_war",
	"context_adjustment", "impact_factor", "adjusted_war", "war_value",
}

// SeasonDocument is the JSON shape of a finished run
type SeasonDocument struct {
	RunID        string                   `json:"run_id"`
	Report       war.RunReport            `json:"report"`
	Warnings     []string                 `json:"configuration_warnings,omitempty"`
	Season       []models.PlayerSeasonWAR `json:"season"`
	Distribution []war.PositionSummary    `json:"distribution"`
	Games        []models.PlayerGameWAR   `json:"games,omitempty"`
}

// NewSeasonDocument builds the JSON document of a run
func NewSeasonDocument(result *war.SeasonResult, includeGames bool) SeasonDocument {
	doc := SeasonDocument{
		RunID:        result.RunID.String(),
		Report:       result.Report,
		Season:       result.Season,
		Distribution: war.AnalyzeDistribution(result.Season),
	}
	for _, w := range result.Report.ConfigurationWarnings {
		doc.Warnings = append(doc.Warnings, w.Error())
	}
	if includeGames {
		doc.Games = result.Games
	}
	return doc
}

// Write renders a run in the requested format
func Write(w io.Writer, format string, result *war.SeasonResult) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, NewSeasonDocument(result, false))
	case FormatCSV:
		return WriteSeasonCSV(w, result.Season)
	case FormatTable, "":
		_, err := io.WriteString(w, GenerateConsoleReport(result))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes any value as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSeasonCSV writes season rows with a header line
func WriteSeasonCSV(w io.Writer, rows []models.PlayerSeasonWAR) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeasonCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.PlayerID,
			r.PlayerName,
			string(r.Position),
			formatFloat(r.WARValue),
			formatFloat(r.OffensiveWAR),
			formatFloat(r.DefensiveWAR),
			formatFloat(r.TeamplayWAR),
			strconv.Itoa(r.GamesPlayed),
			formatFloat(r.WARPerGame),
			strconv.Itoa(r.Goals),
			strconv.Itoa(r.Assists),
			strconv.Itoa(r.Points),
			strconv.Itoa(r.PlusMinus),
			formatFloat(r.AvgGameImpact),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGamesCSV writes per-game rows with a header line
func WriteGamesCSV(w io.Writer, games []models.PlayerGameWAR) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GameCSVHeader); err != nil {
		return err
	}
	for _, g := range games {
		record := []string{
			g.PlayerID,
			g.PlayerName,
			g.MatchID,
			string(g.Position),
			formatFloat(g.GameImpactScore),
			formatFloat(g.Components.Offensive),
			formatFloat(g.Components.Defensive),
			formatFloat(g.Components.Teamplay),
			formatFloat(g.RawWAR),
			formatFloat(g.ContextAdjustment),
			formatFloat(g.ImpactFactor),
			formatFloat(g.AdjustedWAR),
			formatFloat(g.WARValue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateConsoleReport formats a run for terminal output
func GenerateConsoleReport(result *war.SeasonResult) string {
	var builder strings.Builder
	builder.WriteString("Season WAR Report\n")
	builder.WriteString("=================\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", result.RunID))
	builder.WriteString(fmt.Sprintf("Records: %d (skipped %d)\n", result.Report.RecordsIn, result.Report.RecordsSkipped))
	builder.WriteString(fmt.Sprintf("Players: %d (qualified %d)\n", result.Report.SeasonPlayers, result.Report.QualifiedPlayers))
	for _, w := range result.Report.ConfigurationWarnings {
		builder.WriteString(fmt.Sprintf("Warning: %s\n", w))
	}
	builder.WriteString("\n")

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tPOS\tGP\tWAR\tWAR/GP\tOFF\tDEF\tTEAM\tPTS\tIMPACT")
	for i, r := range result.Season {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%.3f\t%.2f\t%.2f\t%.2f\t%d\t%.1f\n",
			i+1, r.PlayerName, r.Position, r.GamesPlayed, r.WARValue, r.WARPerGame,
			r.OffensiveWAR, r.DefensiveWAR, r.TeamplayWAR, r.Points, r.AvgGameImpact)
	}
	tw.Flush()

	summaries := war.AnalyzeDistribution(result.Season)
	if len(summaries) > 0 {
		builder.WriteString("\nBy position\n")
		tw = tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "POS\tPLAYERS\tMEAN\tMEDIAN\tTOP")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%s (%.2f)\n",
				s.Position, s.Players, s.MeanWAR, s.MedianWAR, s.TopPlayer, s.TopWAR)
		}
		tw.Flush()
	}

	return builder.String()
}

// WriteFile renders a run into a file, creating parent directories
func WriteFile(path, format string, result *war.SeasonResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
