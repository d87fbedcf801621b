package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for WAR pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "war_pipeline"),
	}
}

// WithRun returns a logger tagged with a pipeline run id.
func (pl *PipelineLogger) WithRun(runID string) *PipelineLogger {
	return &PipelineLogger{Entry: pl.WithField("run_id", runID)}
}

// LogPhase logs the completion of one pipeline phase.
func (pl *PipelineLogger) LogPhase(phase string, records int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"phase":       phase,
		"records":     records,
		"duration_ms": duration.Milliseconds(),
	}).Info("Pipeline phase completed")
}

// LogSkippedRecord logs a player-game dropped from a phase.
func (pl *PipelineLogger) LogSkippedRecord(phase, playerID, matchID, reason string) {
	pl.WithFields(logrus.Fields{
		"phase":     phase,
		"player_id": playerID,
		"match_id":  matchID,
		"reason":    reason,
	}).Warn("Record skipped")
}

// LogConfigurationWarning logs a weighted metric missing from the season.
func (pl *PipelineLogger) LogConfigurationWarning(err error) {
	pl.WithError(err).Warn("Weighted metric absent, remaining weights renormalized")
}

// LogReplacementTable logs a replacement table build or cache hit.
func (pl *PipelineLogger) LogReplacementTable(fingerprint string, entries int, cached bool) {
	pl.WithFields(logrus.Fields{
		"fingerprint": fingerprint,
		"entries":     entries,
		"cached":      cached,
	}).Debug("Replacement table ready")
}

// LogRunSummary logs the outcome of a complete run.
func (pl *PipelineLogger) LogRunSummary(recordsIn, skipped, players, qualified, warnings int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"records_in":        recordsIn,
		"records_skipped":   skipped,
		"season_players":    players,
		"qualified_players": qualified,
		"config_warnings":   warnings,
		"duration_ms":       duration.Milliseconds(),
	}).Info("WAR pipeline run completed")
}
