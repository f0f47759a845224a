package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/pkg/models"
)

// snapshotMigrations upgrades a decoded snapshot document one version
// at a time. Each function is pure: it takes the document at version
// v and returns it at v+1. Keyed by the version being migrated FROM.
var snapshotMigrations = map[int]func(map[string]interface{}) map[string]interface{}{
	// v1 → v2: per-day activity moved from "history" to "activity",
	// lapse_count introduced on items (defaulting to 0).
	1: func(doc map[string]interface{}) map[string]interface{} {
		courses, _ := doc["courses"].(map[string]interface{})
		for _, raw := range courses {
			course, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if history, ok := course["history"]; ok {
				course["activity"] = history
				delete(course, "history")
			}
			items, _ := course["items"].(map[string]interface{})
			for _, rawItem := range items {
				item, ok := rawItem.(map[string]interface{})
				if !ok {
					continue
				}
				if _, ok := item["lapse_count"]; !ok {
					item["lapse_count"] = 0
				}
			}
		}
		doc["schema_version"] = 2
		return doc
	},
}

// Import validates a snapshot and atomically replaces the course
// slices it contains. A snapshot that fails version or invariant
// checks is rejected wholesale; the live store is left untouched.
func Import(ctx context.Context, store *database.Store, data []byte) error {
	snap, err := Decode(data)
	if err != nil {
		return err
	}

	ledger := models.NewProgressLedger()
	for courseID, cs := range snap.Courses {
		cp := models.CourseProgress{
			Items:    map[string]models.ReviewItem{},
			Activity: models.ActivityLog{},
		}
		for itemID, item := range cs.Items {
			cp.Items[itemID] = item
		}
		for day, count := range cs.Activity {
			cp.Activity[day] = count
		}
		ledger.Courses[courseID] = cp
	}

	return store.ReplaceCourses(ctx, ledger)
}

// Decode parses, migrates, and validates a snapshot without touching
// any store. Exported so callers can inspect a backup before
// restoring it.
func Decode(data []byte) (*Snapshot, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSnapshot, err)
	}

	version, ok := numericVersion(doc["schema_version"])
	if !ok {
		return nil, fmt.Errorf("%w: missing schema_version", models.ErrInvalidSnapshot)
	}
	if version > models.SchemaVersion {
		return nil, fmt.Errorf("%w: snapshot at version %d, this build understands %d",
			models.ErrUnknownSchemaVersion, version, models.SchemaVersion)
	}
	if version < 1 {
		return nil, fmt.Errorf("%w: schema_version %d", models.ErrInvalidSnapshot, version)
	}

	for version < models.SchemaVersion {
		migrate, ok := snapshotMigrations[version]
		if !ok {
			return nil, fmt.Errorf("%w: no migration from version %d", models.ErrUnknownSchemaVersion, version)
		}
		doc = migrate(doc)
		version++
	}

	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSnapshot, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSnapshot, err)
	}

	if err := validate(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// validate checks every invariant the store guarantees, so an import
// can never smuggle in state a review sequence could not produce.
func validate(snap *Snapshot) error {
	for courseID, cs := range snap.Courses {
		if courseID == "" {
			return fmt.Errorf("%w: empty course id", models.ErrInvalidSnapshot)
		}
		for itemID, item := range cs.Items {
			if item.ItemID == "" {
				item.ItemID = itemID
			}
			if item.CourseID == "" {
				item.CourseID = courseID
			}
			cs.Items[itemID] = item
			if item.ItemID != itemID {
				return fmt.Errorf("%w: item keyed %q claims id %q", models.ErrInvalidSnapshot, itemID, item.ItemID)
			}
			if item.CourseID != courseID {
				return fmt.Errorf("%w: item %q keyed under course %q claims course %q",
					models.ErrInvalidSnapshot, itemID, courseID, item.CourseID)
			}
			if err := item.Validate(); err != nil {
				return fmt.Errorf("%w: course %s: %v", models.ErrInvalidSnapshot, courseID, err)
			}
		}
		for day, count := range cs.Activity {
			if count < 1 {
				return fmt.Errorf("%w: course %s: day %s has count %d",
					models.ErrInvalidSnapshot, courseID, day, count)
			}
		}
	}
	return nil
}

func numericVersion(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
