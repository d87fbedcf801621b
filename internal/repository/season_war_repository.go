package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/rinkwar/internal/database"
	"github.com/yourusername/rinkwar/internal/models"
)

// seasonRowColumns is the COPY column order of season_war_rows
var seasonRowColumns = []string{
	"run_id", "rank", "player_id", "player_name", "detailed_position",
	"war_value", "offensive_war", "defensive_war", "teamplay_war",
	"games_played", "war_per_game", "goals", "assists", "points",
	"plus_minus", "avg_game_impact",
}

// PostgresSeasonWARRepository implements SeasonWARRepository for PostgreSQL
type PostgresSeasonWARRepository struct {
	db *database.DB
}

// NewPostgresSeasonWARRepository creates a new season WAR repository
func NewPostgresSeasonWARRepository(db *database.DB) SeasonWARRepository {
	return &PostgresSeasonWARRepository{db: db}
}

// SaveRun inserts the run summary and its complete season table in one transaction
func (r *PostgresSeasonWARRepository) SaveRun(ctx context.Context, run *models.SeasonRun, rows []models.PlayerSeasonWAR) error {
	if run == nil || run.ID == uuid.Nil {
		return fmt.Errorf("season run id is required")
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO season_war_runs (
				id, fingerprint, records_in, records_skipped, qualified_players, config_warnings, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`
		if _, err := tx.Exec(ctx, query,
			run.ID, run.Fingerprint, run.RecordsIn, run.RecordsSkipped,
			run.QualifiedPlayers, run.ConfigurationWarnings, run.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save season run: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		count, err := tx.CopyFrom(ctx, pgx.Identifier{"season_war_rows"}, seasonRowColumns, pgx.CopyFromRows(copyRows(run.ID, rows)))
		if err != nil {
			return fmt.Errorf("failed to copy season rows: %w", err)
		}
		if count != int64(len(rows)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
		}
		return nil
	})
}

// LatestRun retrieves the most recently stored run
func (r *PostgresSeasonWARRepository) LatestRun(ctx context.Context) (*models.SeasonRun, error) {
	query := `
		SELECT id, fingerprint, records_in, records_skipped, qualified_players, config_warnings, created_at
		FROM season_war_runs ORDER BY created_at DESC LIMIT 1
	`
	run := &models.SeasonRun{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&run.ID, &run.Fingerprint, &run.RecordsIn, &run.RecordsSkipped,
		&run.QualifiedPlayers, &run.ConfigurationWarnings, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest season run: %w", err)
	}
	return run, nil
}

// GetRows retrieves the season table of a run in rank order
func (r *PostgresSeasonWARRepository) GetRows(ctx context.Context, runID uuid.UUID) ([]models.PlayerSeasonWAR, error) {
	query := `
		SELECT player_id, player_name, detailed_position, war_value, offensive_war,
			defensive_war, teamplay_war, games_played, war_per_game, goals, assists,
			points, plus_minus, avg_game_impact
		FROM season_war_rows WHERE run_id = $1 ORDER BY rank ASC
	`
	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query season rows: %w", err)
	}
	defer rows.Close()

	var results []models.PlayerSeasonWAR
	for rows.Next() {
		var row models.PlayerSeasonWAR
		var position string
		if err := rows.Scan(
			&row.PlayerID, &row.PlayerName, &position, &row.WARValue, &row.OffensiveWAR,
			&row.DefensiveWAR, &row.TeamplayWAR, &row.GamesPlayed, &row.WARPerGame,
			&row.Goals, &row.Assists, &row.Points, &row.PlusMinus, &row.AvgGameImpact,
		); err != nil {
			return nil, fmt.Errorf("failed to scan season row: %w", err)
		}
		row.Position = models.DetailedPosition(position)
		results = append(results, row)
	}
	return results, rows.Err()
}

// copyRows lays out the season table in seasonRowColumns order. Rank is the
// 1-based position in the already sorted table.
func copyRows(runID uuid.UUID, rows []models.PlayerSeasonWAR) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = []interface{}{
			runID, i + 1, row.PlayerID, row.PlayerName, string(row.Position),
			row.WARValue, row.OffensiveWAR, row.DefensiveWAR, row.TeamplayWAR,
			row.GamesPlayed, row.WARPerGame, row.Goals, row.Assists, row.Points,
			row.PlusMinus, row.AvgGameImpact,
		}
	}
	return out
}
