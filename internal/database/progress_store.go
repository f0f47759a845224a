package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

// writeFailure tags a failed durable write so callers can detect it
// with errors.Is(err, models.ErrStoreWrite). The transaction has been
// rolled back; the rating is not recorded.
func writeFailure(err error, op string) error {
	return errors.Wrapf(models.ErrStoreWrite, "%s: %v", op, err)
}

// GetItem returns the scheduling record for one item, or nil when the
// item was never reviewed.
func (s *Store) GetItem(ctx context.Context, courseID, itemID string) (*models.ReviewItem, error) {
	query := s.rebind(`
		SELECT course_id, item_id, ease_factor, interval_days, repetitions,
		       due_date, last_reviewed_at, lapse_count
		FROM review_items
		WHERE course_id = ? AND item_id = ?
	`)
	var item models.ReviewItem
	err := s.db.GetContext(ctx, &item, query, courseID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get review item")
	}
	return &item, nil
}

// ListItems returns every scheduling record for a course, ordered by
// due date then item id so callers see a deterministic sequence.
func (s *Store) ListItems(ctx context.Context, courseID string) ([]models.ReviewItem, error) {
	query := s.rebind(`
		SELECT course_id, item_id, ease_factor, interval_days, repetitions,
		       due_date, last_reviewed_at, lapse_count
		FROM review_items
		WHERE course_id = ?
		ORDER BY due_date, item_id
	`)
	var items []models.ReviewItem
	if err := s.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, errors.Wrap(err, "list review items")
	}
	return items, nil
}

// RecordReview durably applies one review event: the item's new state
// and the day's activity increment commit in a single transaction, so
// a crash cannot leave the two halves split.
func (s *Store) RecordReview(ctx context.Context, item models.ReviewItem, day dates.Day) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return writeFailure(err, "begin record review")
	}
	defer tx.Rollback()

	upsertItem := s.rebind(`
		INSERT INTO review_items (
			course_id, item_id, ease_factor, interval_days, repetitions,
			due_date, last_reviewed_at, lapse_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (course_id, item_id) DO UPDATE SET
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			repetitions = excluded.repetitions,
			due_date = excluded.due_date,
			last_reviewed_at = excluded.last_reviewed_at,
			lapse_count = excluded.lapse_count
	`)
	if _, err := tx.ExecContext(ctx, upsertItem,
		item.CourseID, item.ItemID, item.EaseFactor, item.IntervalDays,
		item.Repetitions, item.DueDate, item.LastReviewedAt.UTC(), item.LapseCount,
	); err != nil {
		return writeFailure(err, "upsert review item")
	}

	bumpActivity := s.rebind(`
		INSERT INTO activity_log (course_id, day, count) VALUES (?, ?, 1)
		ON CONFLICT (course_id, day) DO UPDATE SET
			count = activity_log.count + 1
	`)
	if _, err := tx.ExecContext(ctx, bumpActivity, item.CourseID, day); err != nil {
		return writeFailure(err, "bump activity")
	}

	if err := tx.Commit(); err != nil {
		return writeFailure(err, "commit record review")
	}
	return nil
}

// Activity returns a course's sparse day-to-count activity log.
func (s *Store) Activity(ctx context.Context, courseID string) (models.ActivityLog, error) {
	query := s.rebind(`SELECT day, count FROM activity_log WHERE course_id = ?`)
	rows, err := s.db.QueryxContext(ctx, query, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "load activity log")
	}
	defer rows.Close()

	log := models.ActivityLog{}
	for rows.Next() {
		var (
			day   dates.Day
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, errors.Wrap(err, "scan activity row")
		}
		log[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate activity rows")
	}
	return log, nil
}

// Courses lists every course id present in the ledger, sorted.
func (s *Store) Courses(ctx context.Context) ([]string, error) {
	query := `
		SELECT course_id FROM review_items
		UNION
		SELECT course_id FROM activity_log
		ORDER BY course_id
	`
	var courses []string
	if err := s.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, errors.Wrap(err, "list courses")
	}
	return courses, nil
}

// ClearCourse wipes one course's slice of the ledger, items and
// activity together.
func (s *Store) ClearCourse(ctx context.Context, courseID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return writeFailure(err, "begin clear course")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM review_items WHERE course_id = ?`), courseID); err != nil {
		return writeFailure(err, "clear review items")
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM activity_log WHERE course_id = ?`), courseID); err != nil {
		return writeFailure(err, "clear activity log")
	}
	if err := tx.Commit(); err != nil {
		return writeFailure(err, "commit clear course")
	}
	return nil
}

// SnapshotCourses reads the requested courses (all of them when none
// are named) in one transaction, so an export never observes a review
// torn across its two tables.
func (s *Store) SnapshotCourses(ctx context.Context, courseIDs ...string) (*models.ProgressLedger, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: s.driver == DriverPostgres})
	if err != nil {
		return nil, errors.Wrap(err, "begin snapshot")
	}
	defer tx.Rollback()

	ledger := models.NewProgressLedger()

	itemQuery := `
		SELECT course_id, item_id, ease_factor, interval_days, repetitions,
		       due_date, last_reviewed_at, lapse_count
		FROM review_items ORDER BY course_id, item_id
	`
	activityQuery := `SELECT course_id, day, count FROM activity_log ORDER BY course_id, day`

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	include := func(courseID string) bool {
		return len(wanted) == 0 || wanted[courseID]
	}
	slice := func(courseID string) models.CourseProgress {
		cp, ok := ledger.Courses[courseID]
		if !ok {
			cp = models.CourseProgress{
				Items:    map[string]models.ReviewItem{},
				Activity: models.ActivityLog{},
			}
			ledger.Courses[courseID] = cp
		}
		return cp
	}

	var items []models.ReviewItem
	if err := tx.SelectContext(ctx, &items, itemQuery); err != nil {
		return nil, errors.Wrap(err, "snapshot review items")
	}
	for _, it := range items {
		if include(it.CourseID) {
			slice(it.CourseID).Items[it.ItemID] = it
		}
	}

	rows, err := tx.QueryxContext(ctx, activityQuery)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot activity log")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			courseID string
			day      dates.Day
			count    int
		)
		if err := rows.Scan(&courseID, &day, &count); err != nil {
			return nil, errors.Wrap(err, "scan activity row")
		}
		if include(courseID) {
			slice(courseID).Activity[day] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate activity rows")
	}

	return ledger, tx.Commit()
}

// ReplaceCourses atomically swaps in the given courses' slices,
// discarding whatever the store held for them. Courses absent from
// the ledger are left untouched. Used by snapshot import.
func (s *Store) ReplaceCourses(ctx context.Context, ledger *models.ProgressLedger) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return writeFailure(err, "begin replace courses")
	}
	defer tx.Rollback()

	insertItem := s.rebind(`
		INSERT INTO review_items (
			course_id, item_id, ease_factor, interval_days, repetitions,
			due_date, last_reviewed_at, lapse_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	insertActivity := s.rebind(`INSERT INTO activity_log (course_id, day, count) VALUES (?, ?, ?)`)

	for courseID, cp := range ledger.Courses {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM review_items WHERE course_id = ?`), courseID); err != nil {
			return writeFailure(err, "replace review items")
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM activity_log WHERE course_id = ?`), courseID); err != nil {
			return writeFailure(err, "replace activity log")
		}
		for _, it := range cp.Items {
			if _, err := tx.ExecContext(ctx, insertItem,
				courseID, it.ItemID, it.EaseFactor, it.IntervalDays,
				it.Repetitions, it.DueDate, it.LastReviewedAt.UTC(), it.LapseCount,
			); err != nil {
				return writeFailure(err, "insert review item")
			}
		}
		for day, count := range cp.Activity {
			if _, err := tx.ExecContext(ctx, insertActivity, courseID, day, count); err != nil {
				return writeFailure(err, "insert activity")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return writeFailure(err, "commit replace courses")
	}
	return nil
}
