package models

import "github.com/example/mnemo/pkg/dates"

// SchemaVersion is the current version of the persisted ledger. It
// covers both the database schema and the export snapshot format;
// the two evolve in lockstep.
//
// History:
//
//	1 — initial schema: review items without lapse tracking, per-day
//	    activity stored under "review_history".
//	2 — lapse_count added to review items; activity renamed to
//	    "activity_log" (snapshot key "activity").
const SchemaVersion = 2

// ActivityLog maps a calendar day to the number of items rated that
// day. It is sparse: days without activity are absent, never zero.
type ActivityLog map[dates.Day]int

// CourseProgress is one course's slice of the ledger.
type CourseProgress struct {
	Items    map[string]ReviewItem `json:"items"`
	Activity ActivityLog           `json:"activity"`
}

// ProgressLedger is the full persisted aggregate: every course's
// review items and activity log, tagged with the schema version.
type ProgressLedger struct {
	SchemaVersion int                       `json:"schema_version"`
	Courses       map[string]CourseProgress `json:"courses"`
}

// NewProgressLedger returns an empty ledger at the current version.
func NewProgressLedger() *ProgressLedger {
	return &ProgressLedger{
		SchemaVersion: SchemaVersion,
		Courses:       map[string]CourseProgress{},
	}
}
