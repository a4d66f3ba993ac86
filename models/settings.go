package models

import "time"

// Export format preferences accepted in Settings.ExportFormat.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Settings is the stored configuration record for the survey pipeline.
type Settings struct {
	// RetentionDays is the maximum age of a stored response; older ones are
	// purged by the weekly maintenance pass.
	RetentionDays int `bson:"retention_days" json:"retention_days"`
	// MaxResponses caps the collection size; inserts beyond it evict the
	// oldest responses first.
	MaxResponses     int       `bson:"max_responses" json:"max_responses"`
	AnonymizeOnWrite bool      `bson:"anonymize_on_write" json:"anonymize_on_write"`
	ExportFormat     string    `bson:"export_format" json:"export_format"`
	LastCleanup      time.Time `bson:"last_cleanup" json:"last_cleanup"`
}

// DefaultSettings is the documented default returned when no settings record
// is stored yet.
func DefaultSettings() Settings {
	return Settings{
		RetentionDays: 365,
		MaxResponses:  1000,
		ExportFormat:  FormatJSON,
	}
}
