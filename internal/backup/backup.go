// Package backup serializes the progress ledger for export and
// validates snapshots before importing them over live state. A
// snapshot is the unit of backup: self-describing, versioned, and
// restorable on any installation at the same or a newer version.
package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

// Snapshot is the export file shape.
type Snapshot struct {
	SchemaVersion int                       `json:"schema_version"`
	ExportedAt    time.Time                 `json:"exported_at"`
	Courses       map[string]CourseSnapshot `json:"courses"`
}

// CourseSnapshot is one course's slice of a snapshot.
type CourseSnapshot struct {
	Items    map[string]models.ReviewItem `json:"items"`
	Activity map[dates.Day]int            `json:"activity"`
}

// Export reads the named courses (or every course when none are
// given) in a single consistent transaction and returns the snapshot.
func Export(ctx context.Context, store *database.Store, courseIDs ...string) (*Snapshot, error) {
	ledger, err := store.SnapshotCourses(ctx, courseIDs...)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		SchemaVersion: models.SchemaVersion,
		ExportedAt:    time.Now().UTC(),
		Courses:       map[string]CourseSnapshot{},
	}
	for courseID, cp := range ledger.Courses {
		snap.Courses[courseID] = CourseSnapshot{
			Items:    cp.Items,
			Activity: cp.Activity,
		}
	}
	return snap, nil
}

// ExportJSON is Export rendered as indented JSON.
func ExportJSON(ctx context.Context, store *database.Store, courseIDs ...string) ([]byte, error) {
	snap, err := Export(ctx, store, courseIDs...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// FileBackup writes timestamped full snapshots into a directory. It
// backs the auto-backup job of a live session.
type FileBackup struct {
	Store *database.Store
	Dir   string
}

// WriteBackup exports the full ledger to a new timestamped file and
// returns its path.
func (b *FileBackup) WriteBackup() (string, error) {
	data, err := ExportJSON(context.Background(), b.Store)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(b.Dir, "mnemo-"+time.Now().Format("20060102-150405")+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
