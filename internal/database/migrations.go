package database

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/example/mnemo/pkg/models"
)

// migration is one schema version step. Statements are written in
// portable DDL so the same step applies to sqlite and postgres.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered chain bringing a database from any older
// version to models.SchemaVersion. Steps are applied in order inside
// a single transaction each; the schema_migrations table records the
// versions already applied.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE review_items (
				course_id TEXT NOT NULL,
				item_id TEXT NOT NULL,
				ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
				interval_days INTEGER NOT NULL DEFAULT 0,
				repetitions INTEGER NOT NULL DEFAULT 0,
				due_date TEXT NOT NULL,
				last_reviewed_at TIMESTAMP NOT NULL,
				PRIMARY KEY (course_id, item_id)
			)`,
			`CREATE TABLE review_history (
				course_id TEXT NOT NULL,
				day TEXT NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (course_id, day)
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`ALTER TABLE review_items ADD COLUMN lapse_count INTEGER NOT NULL DEFAULT 0`,
			`CREATE TABLE activity_log (
				course_id TEXT NOT NULL,
				day TEXT NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (course_id, day)
			)`,
			`INSERT INTO activity_log (course_id, day, count)
				SELECT course_id, day, count FROM review_history`,
			`DROP TABLE review_history`,
		},
	},
}

// migrate applies every pending migration. A schema version newer
// than this build refuses to open rather than guess at a downgrade.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}

	var current int
	if err := s.db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return errors.Wrap(err, "read schema version")
	}

	if current > models.SchemaVersion {
		return fmt.Errorf("%w: database at version %d, this build understands %d",
			models.ErrUnknownSchemaVersion, current, models.SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return errors.Wrapf(err, "begin migration %d", m.version)
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return errors.Wrapf(err, "apply migration %d", m.version)
			}
		}
		if _, err := tx.Exec(s.rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), m.version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "record migration %d", m.version)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit migration %d", m.version)
		}
	}
	return nil
}
