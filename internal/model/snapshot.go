package model

// SnapshotVersion is the export file format version.
const SnapshotVersion = "1.0"

// Snapshot is the import/export file format: the whole ledger plus
// provenance metadata. Unknown top-level fields are ignored on import.
type Snapshot struct {
	Version    string        `json:"version"`
	ExportDate string        `json:"exportDate"` // RFC 3339
	Entries    []WeeklyEntry `json:"entries"`
}
