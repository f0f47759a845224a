package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

func openTestStore(t *testing.T) *database.Store {
	t.Helper()
	s, err := database.Open(database.Config{DSN: filepath.Join(t.TempDir(), "mnemo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedReviews(t *testing.T, s *database.Store) (dates.Day, []models.ReviewItem) {
	t.Helper()
	day, err := dates.ParseDay("2026-08-31")
	require.NoError(t, err)

	items := []models.ReviewItem{
		{
			ItemID: "card-001", CourseID: "go-basics",
			EaseFactor: 2.6, IntervalDays: 1, Repetitions: 1,
			DueDate:        day.AddDays(1),
			LastReviewedAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		},
		{
			ItemID: "ex-042a", CourseID: "go-basics",
			EaseFactor: 2.3, IntervalDays: 1, Repetitions: 0, LapseCount: 1,
			DueDate:        day.AddDays(1),
			LastReviewedAt: time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC),
		},
	}
	for _, it := range items {
		require.NoError(t, s.RecordReview(context.Background(), it, day))
	}
	return day, items
}

func TestExportImportEmptyStore(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	ctx := context.Background()

	data, err := ExportJSON(ctx, src)
	require.NoError(t, err)
	require.NoError(t, Import(ctx, dst, data))

	courses, err := dst.Courses(ctx)
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	ctx := context.Background()
	day, items := seedReviews(t, src)

	data, err := ExportJSON(ctx, src)
	require.NoError(t, err)
	require.NoError(t, Import(ctx, dst, data))

	for _, want := range items {
		got, err := dst.GetItem(ctx, want.CourseID, want.ItemID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, want.EaseFactor, got.EaseFactor)
		require.Equal(t, want.IntervalDays, got.IntervalDays)
		require.Equal(t, want.Repetitions, got.Repetitions)
		require.Equal(t, want.LapseCount, got.LapseCount)
		require.Equal(t, want.DueDate, got.DueDate)
		require.True(t, got.LastReviewedAt.Equal(want.LastReviewedAt))
	}

	log, err := dst.Activity(ctx, "go-basics")
	require.NoError(t, err)
	require.Equal(t, models.ActivityLog{day: 2}, log)

	// A second export is identical to the restored one, course for
	// course and item for item.
	first, err := Export(ctx, src)
	require.NoError(t, err)
	second, err := Export(ctx, dst)
	require.NoError(t, err)
	require.Equal(t, first.Courses, second.Courses)
}

func TestImportRejectsEaseBelowFloor(t *testing.T) {
	dst := openTestStore(t)
	ctx := context.Background()
	_, items := seedReviews(t, dst)

	snap := Snapshot{
		SchemaVersion: models.SchemaVersion,
		Courses: map[string]CourseSnapshot{
			"go-basics": {
				Items: map[string]models.ReviewItem{
					"card-001": {
						ItemID: "card-001", CourseID: "go-basics",
						EaseFactor: 1.0, IntervalDays: 1, Repetitions: 1,
						LastReviewedAt: time.Now().UTC(),
					},
				},
			},
		},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	err = Import(ctx, dst, data)
	require.ErrorIs(t, err, models.ErrInvalidSnapshot)

	// Rejected wholesale: the live store is unchanged.
	got, err := dst.GetItem(ctx, "go-basics", "card-001")
	require.NoError(t, err)
	require.Equal(t, items[0].EaseFactor, got.EaseFactor)
}

func TestImportRejectsFutureVersion(t *testing.T) {
	dst := openTestStore(t)
	ctx := context.Background()

	data := []byte(`{"schema_version": 3, "courses": {}}`)
	err := Import(ctx, dst, data)
	require.ErrorIs(t, err, models.ErrUnknownSchemaVersion)

	courses, err := dst.Courses(ctx)
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestImportRejectsMalformedPayloads(t *testing.T) {
	dst := openTestStore(t)
	ctx := context.Background()

	for name, payload := range map[string]string{
		"not json":        `{`,
		"missing version": `{"courses": {}}`,
		"version zero":    `{"schema_version": 0, "courses": {}}`,
		"bad day key": `{"schema_version": 2, "courses": {"c": {
			"items": {}, "activity": {"yesterday": 1}}}}`,
		"zero count": `{"schema_version": 2, "courses": {"c": {
			"items": {}, "activity": {"2026-08-31": 0}}}}`,
		"negative interval": `{"schema_version": 2, "courses": {"c": {"items": {
			"x": {"item_id": "x", "course_id": "c", "ease_factor": 2.5,
			      "interval_days": -1, "repetitions": 0, "due_date": "2026-08-31",
			      "last_reviewed_at": "2026-08-31T09:00:00Z", "lapse_count": 0}
		}, "activity": {}}}}`,
		"item id mismatch": `{"schema_version": 2, "courses": {"c": {"items": {
			"x": {"item_id": "y", "course_id": "c", "ease_factor": 2.5,
			      "interval_days": 1, "repetitions": 1, "due_date": "2026-08-31",
			      "last_reviewed_at": "2026-08-31T09:00:00Z", "lapse_count": 0}
		}, "activity": {}}}}`,
	} {
		err := Import(ctx, dst, []byte(payload))
		require.Error(t, err, name)
		require.NotErrorIs(t, err, models.ErrUnknownSchemaVersion, name)
	}
}

func TestDecodeMigratesV1Snapshot(t *testing.T) {
	payload := `{
		"schema_version": 1,
		"courses": {
			"go-basics": {
				"items": {
					"card-001": {
						"item_id": "card-001", "course_id": "go-basics",
						"ease_factor": 2.6, "interval_days": 6, "repetitions": 2,
						"due_date": "2026-09-06",
						"last_reviewed_at": "2026-08-31T09:00:00Z"
					}
				},
				"history": {"2026-08-31": 3}
			}
		}
	}`

	snap, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, models.SchemaVersion, snap.SchemaVersion)

	course := snap.Courses["go-basics"]
	item := course.Items["card-001"]
	require.Equal(t, 0, item.LapseCount) // defaulted by the migration

	day, err := dates.ParseDay("2026-08-31")
	require.NoError(t, err)
	require.Equal(t, map[dates.Day]int{day: 3}, course.Activity)
}

func TestFileBackupWritesSnapshot(t *testing.T) {
	s := openTestStore(t)
	seedReviews(t, s)

	dir := filepath.Join(t.TempDir(), "backups")
	fb := &FileBackup{Store: s, Dir: dir}

	path, err := fb.WriteBackup()
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	snap, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, snap.Courses["go-basics"].Items, 2)
}
