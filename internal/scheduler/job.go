package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rinkwar/internal/datasource"
	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/repository"
	"github.com/yourusername/rinkwar/internal/service"
	"github.com/yourusername/rinkwar/internal/war"
)

// ClubFetcher fetches the matches of several clubs
type ClubFetcher interface {
	FetchClubs(ctx context.Context, clubIDs []string) ([]datasource.Match, error)
}

// SeasonJob recomputes the season table from the configured clubs' matches.
// Every run starts from scratch; nothing carries over between runs.
type SeasonJob struct {
	fetcher    ClubFetcher
	normalizer *service.StatNormalizer
	validator  *service.SeasonValidator
	pipeline   *war.Pipeline
	store      repository.SeasonWARRepository
	clubIDs    []string
	logger     *logger.IngestLogger
	now        func() time.Time

	mu   sync.RWMutex
	last *war.SeasonResult
}

// NewSeasonJob creates a season job. A nil store skips persistence.
func NewSeasonJob(
	fetcher ClubFetcher,
	normalizer *service.StatNormalizer,
	pipeline *war.Pipeline,
	store repository.SeasonWARRepository,
	clubIDs []string,
	log *logrus.Logger,
) *SeasonJob {
	if log == nil {
		log = logrus.New()
	}
	return &SeasonJob{
		fetcher:    fetcher,
		normalizer: normalizer,
		validator:  service.NewSeasonValidator(log),
		pipeline:   pipeline,
		store:      store,
		clubIDs:    clubIDs,
		logger:     logger.NewIngestLogger(log),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run fetches, normalizes, values and optionally stores one season
func (j *SeasonJob) Run(ctx context.Context) (*war.SeasonResult, error) {
	matches, err := j.fetcher.FetchClubs(ctx, j.clubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch club matches: %w", err)
	}
	matches = datasource.UniqueMatches(matches)

	records, report := j.normalizer.NormalizeBatch(datasource.FlattenMatches(matches))
	flagged := j.validator.Check(records)
	j.logger.WithFields(logrus.Fields{
		"matches":  len(matches),
		"accepted": report.Accepted,
		"rejected": report.Rejected,
		"flagged":  flagged,
	}).Info("Season input prepared")

	result, err := j.pipeline.Run(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("season pipeline failed: %w", err)
	}
	result.AddRejected(report.Rejected)

	if j.store != nil {
		if err := j.store.SaveRun(ctx, result.StoredRun(j.now()), result.Season); err != nil {
			return nil, fmt.Errorf("failed to store season run: %w", err)
		}
		j.logger.LogRunStored(result.RunID.String(), len(result.Season))
	}

	j.mu.Lock()
	j.last = result
	j.mu.Unlock()

	return result, nil
}

// LastResult returns the most recent successful run, or nil
func (j *SeasonJob) LastResult() *war.SeasonResult {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
