package war

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/rinkwar/internal/impact"
	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/metrics"
	"github.com/yourusername/rinkwar/internal/models"
	"github.com/yourusername/rinkwar/internal/stats"
)

// Pipeline phases, used as log fields and metric labels
const (
	PhaseScoring     = "scoring"
	PhaseReplacement = "replacement"
	PhaseValuation   = "valuation"
	PhaseAggregation = "aggregation"
)

// ScoredGame is a player-game with its game impact score
type ScoredGame struct {
	Record   models.StatRecord
	Position models.DetailedPosition
	Score    float64
}

// ScoredSet is the output of the scoring phase, in input order
type ScoredSet []ScoredGame

// Records returns the underlying player-games in input order
func (s ScoredSet) Records() []models.StatRecord {
	records := make([]models.StatRecord, len(s))
	for i, g := range s {
		records[i] = g.Record
	}
	return records
}

// PipelineConfig tunes a pipeline
type PipelineConfig struct {
	Workers  int
	Estimate EstimateOptions
}

// DefaultPipelineConfig uses one worker per CPU and the default estimate
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Workers:  runtime.NumCPU(),
		Estimate: DefaultEstimateOptions(),
	}
}

// RunReport summarizes one pipeline run
type RunReport struct {
	RecordsIn             int                          `json:"records_in"`
	RecordsSkipped        int                          `json:"records_skipped"`
	RecordsRejected       int                          `json:"records_rejected"`
	ConfigurationWarnings []*models.ConfigurationError `json:"-"`
	QualifiedPlayers      int                          `json:"qualified_players"`
	SeasonPlayers         int                          `json:"season_players"`
	CachedTable           bool                         `json:"cached_table"`
	Duration              time.Duration                `json:"duration"`
}

// SeasonResult is everything a run produces
type SeasonResult struct {
	RunID  uuid.UUID
	Table  *ReplacementTable
	Games  []models.PlayerGameWAR
	Season []models.PlayerSeasonWAR
	Report RunReport
}

// AddRejected folds records the normalizer rejected before the run into the
// report, so RecordsIn counts raw input and RecordsSkipped every record that
// was not valued
func (r *SeasonResult) AddRejected(n int) {
	if n <= 0 {
		return
	}
	r.Report.RecordsRejected += n
	r.Report.RecordsIn += n
	r.Report.RecordsSkipped += n
}

// StoredRun returns the persistable summary of the result
func (r *SeasonResult) StoredRun(createdAt time.Time) *models.SeasonRun {
	run := &models.SeasonRun{
		ID:                    r.RunID,
		RecordsIn:             r.Report.RecordsIn,
		RecordsSkipped:        r.Report.RecordsSkipped,
		QualifiedPlayers:      r.Report.QualifiedPlayers,
		ConfigurationWarnings: len(r.Report.ConfigurationWarnings),
		CreatedAt:             createdAt,
	}
	if r.Table != nil {
		run.Fingerprint = r.Table.Fingerprint()
	}
	return run
}

// Pipeline runs the three-pass season valuation: score every record, build
// the replacement table over the whole season, then value and aggregate.
// A run never depends on a previous one apart from the table cache, which
// is keyed by the exact game set.
type Pipeline struct {
	config PipelineConfig
	cache  *TableCache
	logger *logger.PipelineLogger
}

// NewPipeline creates a pipeline. A nil cache disables table caching.
func NewPipeline(cfg PipelineConfig, tableCache *TableCache, log *logrus.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		config: cfg,
		cache:  tableCache,
		logger: logger.NewPipelineLogger(log),
	}
}

// Score computes the game impact score of every record concurrently
func (p *Pipeline) Score(ctx context.Context, records []models.StatRecord) (ScoredSet, error) {
	scored := make(ScoredSet, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)

	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := records[i]
			score := impact.Score(r)
			scored[i] = ScoredGame{
				Record:   r,
				Position: stats.DetailedPosition(r),
				Score:    score,
			}
			metrics.RecordScored(r.Role().String(), score)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring phase: %w", err)
	}
	return scored, nil
}

// Run values a full season of player-games
func (p *Pipeline) Run(ctx context.Context, records []models.StatRecord) (*SeasonResult, error) {
	start := time.Now()
	runID := uuid.New()
	log := p.logger.WithRun(runID.String())

	result, err := p.run(ctx, log, records)
	duration := time.Since(start)
	if err != nil {
		outcome := "error"
		if ctx.Err() != nil {
			outcome = "cancelled"
		}
		metrics.RecordPipelineRun(outcome, duration.Seconds())
		log.WithError(err).Error("WAR pipeline run failed")
		return nil, err
	}

	result.RunID = runID
	result.Report.Duration = duration

	metrics.RecordPipelineRun("success", duration.Seconds())
	metrics.UpdateSeasonPlayers(float64(len(result.Season)))
	metrics.UpdateQualifiedPlayers(float64(result.Report.QualifiedPlayers))

	log.LogRunSummary(
		result.Report.RecordsIn,
		result.Report.RecordsSkipped,
		result.Report.SeasonPlayers,
		result.Report.QualifiedPlayers,
		len(result.Report.ConfigurationWarnings),
		duration,
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, log *logger.PipelineLogger, records []models.StatRecord) (*SeasonResult, error) {
	phaseStart := time.Now()
	scored, err := p.Score(ctx, records)
	if err != nil {
		return nil, err
	}
	p.phaseDone(log, PhaseScoring, len(scored), phaseStart)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("before replacement phase: %w", err)
	}

	phaseStart = time.Now()
	table, cached := p.replacementTable(records)
	log.LogReplacementTable(table.Fingerprint(), table.Len(), cached)
	p.publishLevels(table)
	p.phaseDone(log, PhaseReplacement, len(records), phaseStart)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("before valuation phase: %w", err)
	}

	phaseStart = time.Now()
	calc := NewComponentCalculator(table)
	for _, w := range calc.Warnings() {
		metrics.RecordConfigurationWarning()
		log.LogConfigurationWarning(w)
	}

	games, skipped := p.value(log, calc, scored)
	p.phaseDone(log, PhaseValuation, len(games), phaseStart)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("before aggregation phase: %w", err)
	}

	phaseStart = time.Now()
	season := Aggregate(games)
	p.phaseDone(log, PhaseAggregation, len(season), phaseStart)

	return &SeasonResult{
		Table:  table,
		Games:  games,
		Season: season,
		Report: RunReport{
			RecordsIn:             len(records),
			RecordsSkipped:        skipped,
			ConfigurationWarnings: calc.Warnings(),
			QualifiedPlayers:      table.QualifiedPlayers(),
			SeasonPlayers:         len(season),
			CachedTable:           cached,
		},
	}, nil
}

func (p *Pipeline) replacementTable(records []models.StatRecord) (*ReplacementTable, bool) {
	if p.cache == nil {
		return Estimate(records, p.config.Estimate), false
	}
	return p.cache.GetOrEstimate(records, p.config.Estimate)
}

// value turns scored games into per-game WAR. Records whose position has no
// weight table are skipped and counted.
func (p *Pipeline) value(log *logger.PipelineLogger, calc *ComponentCalculator, scored ScoredSet) ([]models.PlayerGameWAR, int) {
	games := make([]models.PlayerGameWAR, 0, len(scored))
	skipped := 0

	for _, g := range scored {
		if _, ok := WeightsFor(g.Position); !ok {
			skipped++
			metrics.RecordSkipped(PhaseValuation)
			log.LogSkippedRecord(PhaseValuation, g.Record.PlayerID, g.Record.MatchID,
				fmt.Sprintf("unknown position %q", g.Record.Position))
			continue
		}
		components := calc.Components(g.Record, g.Position)
		games = append(games, ValueGame(g.Record, g.Position, g.Score, components))
	}

	return games, skipped
}

func (p *Pipeline) publishLevels(table *ReplacementTable) {
	for _, pos := range models.DetailedPositions {
		for _, metric := range table.Metrics(pos) {
			level, _ := table.Level(pos, metric)
			metrics.UpdateReplacementLevel(string(pos), metric, level)
		}
	}
}

func (p *Pipeline) phaseDone(log *logger.PipelineLogger, phase string, records int, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordPhaseDuration(phase, elapsed.Seconds())
	log.LogPhase(phase, records, elapsed)
}
