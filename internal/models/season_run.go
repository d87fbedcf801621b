package models

import (
	"time"

	"github.com/google/uuid"
)

// SeasonRun is the stored summary of one pipeline run
type SeasonRun struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	Fingerprint           string    `db:"fingerprint" json:"fingerprint"`
	RecordsIn             int       `db:"records_in" json:"records_in"`
	RecordsSkipped        int       `db:"records_skipped" json:"records_skipped"`
	QualifiedPlayers      int       `db:"qualified_players" json:"qualified_players"`
	ConfigurationWarnings int       `db:"config_warnings" json:"configuration_warnings"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}
