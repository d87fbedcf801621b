package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/rinkwar/internal/models"
)

// SeasonWARRepository stores finished season tables
type SeasonWARRepository interface {
	SaveRun(ctx context.Context, run *models.SeasonRun, rows []models.PlayerSeasonWAR) error
	LatestRun(ctx context.Context) (*models.SeasonRun, error)
	GetRows(ctx context.Context, runID uuid.UUID) ([]models.PlayerSeasonWAR, error)
}
