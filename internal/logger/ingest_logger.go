package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestLogger provides dedicated logging for match fetching and normalization.
type IngestLogger struct {
	*logrus.Entry
}

// NewIngestLogger creates a new ingest logger.
func NewIngestLogger(baseLogger *logrus.Logger) *IngestLogger {
	return &IngestLogger{
		Entry: baseLogger.WithField("component", "ingest"),
	}
}

// LogClubFetch logs a completed club matches request.
func (il *IngestLogger) LogClubFetch(clubID, platform, matchType string, matches int, durationMs int64) {
	il.WithFields(logrus.Fields{
		"club_id":     clubID,
		"platform":    platform,
		"match_type":  matchType,
		"matches":     matches,
		"duration_ms": durationMs,
	}).Info("Club matches fetched")
}

// LogRejectedRecord logs a raw record that failed normalization.
func (il *IngestLogger) LogRejectedRecord(index int, playerID string, err error) {
	il.WithFields(logrus.Fields{
		"index":     index,
		"player_id": playerID,
	}).WithError(err).Warn("Raw record rejected")
}

// LogBatch logs a normalized batch summary.
func (il *IngestLogger) LogBatch(accepted, rejected int) {
	il.WithFields(logrus.Fields{
		"accepted": accepted,
		"rejected": rejected,
	}).Info("Raw batch normalized")
}

// LogRunStored logs a season table written to storage.
func (il *IngestLogger) LogRunStored(runID string, rows int) {
	il.WithFields(logrus.Fields{
		"run_id": runID,
		"rows":   rows,
	}).Info("Season WAR run stored")
}
