package review

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/mnemo/internal/catalog"
	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/internal/spaced_repetition"
	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

var sessionStart = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func testService(t *testing.T) *Service {
	t.Helper()
	store, err := database.Open(database.Config{DSN: filepath.Join(t.TempDir(), "mnemo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	course := &catalog.Course{
		ID: "go-basics",
		Modules: []catalog.Module{
			{ID: "m01", Items: []string{"card-001", "card-002"}},
			{ID: "m02", Items: []string{"card-003", "ex-001a"}},
		},
	}
	return NewService(store, map[string]*catalog.Course{"go-basics": course})
}

func TestProcessReviewCreatesAndAdvances(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	item, err := svc.ProcessReview(ctx, Request{
		CourseID: "go-basics", ItemID: "card-001",
		Rating: spaced_repetition.Recalled, At: sessionStart,
	})
	require.NoError(t, err)
	require.Equal(t, 1, item.Repetitions)
	require.Equal(t, 1, item.IntervalDays)

	item, err = svc.ProcessReview(ctx, Request{
		CourseID: "go-basics", ItemID: "card-001",
		Rating: spaced_repetition.Recalled, At: sessionStart.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Equal(t, 2, item.Repetitions)
	require.Equal(t, 6, item.IntervalDays)

	s, err := svc.Stats(ctx, "go-basics", sessionStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, 2, s.Current)
	require.Equal(t, 1, s.Today)
}

func TestProcessReviewRejectsInvalidRating(t *testing.T) {
	svc := testService(t)

	_, err := svc.ProcessReview(context.Background(), Request{
		CourseID: "go-basics", ItemID: "card-001",
		Rating: spaced_repetition.Rating(9), At: sessionStart,
	})
	require.ErrorIs(t, err, models.ErrInvalidRating)

	// No partial state: the item is still unseen and no activity was
	// logged.
	due, err := svc.Due(context.Background(), "go-basics", sessionStart)
	require.NoError(t, err)
	require.Equal(t, []string{"card-001", "card-002", "card-003", "ex-001a"}, due)
	s, err := svc.Stats(context.Background(), "go-basics", sessionStart)
	require.NoError(t, err)
	require.Zero(t, s.Today)
}

func TestDueMixesUnseenAndDueItems(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	// card-001 reviewed and due tomorrow; card-002 lapsed, due
	// tomorrow as well; others never seen.
	_, err := svc.ProcessReview(ctx, Request{
		CourseID: "go-basics", ItemID: "card-001",
		Rating: spaced_repetition.Recalled, At: sessionStart,
	})
	require.NoError(t, err)
	_, err = svc.ProcessReview(ctx, Request{
		CourseID: "go-basics", ItemID: "card-002",
		Rating: spaced_repetition.Peeked, At: sessionStart,
	})
	require.NoError(t, err)

	due, err := svc.Due(ctx, "go-basics", sessionStart)
	require.NoError(t, err)
	require.Equal(t, []string{"card-003", "ex-001a"}, due)

	tomorrow := sessionStart.AddDate(0, 0, 1)
	due, err = svc.Due(ctx, "go-basics", tomorrow)
	require.NoError(t, err)
	require.Equal(t, []string{"card-003", "ex-001a", "card-001", "card-002"}, due)
}

func TestDueByModule(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	due, err := svc.DueByModule(ctx, "go-basics", "m02", sessionStart)
	require.NoError(t, err)
	require.Equal(t, []string{"card-003", "ex-001a"}, due)

	_, err = svc.DueByModule(ctx, "go-basics", "m99", sessionStart)
	require.ErrorIs(t, err, models.ErrCourseNotFound)
	_, err = svc.DueByModule(ctx, "missing", "m01", sessionStart)
	require.ErrorIs(t, err, models.ErrCourseNotFound)
}

func TestDueShuffled(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, err := svc.DueShuffled(ctx, "go-basics", sessionStart, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := svc.DueShuffled(ctx, "go-basics", sessionStart, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.ElementsMatch(t, []string{"card-001", "card-002", "card-003", "ex-001a"}, first)
}

func TestHeatmapReflectsReviews(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	for _, id := range []string{"card-001", "card-002"} {
		_, err := svc.ProcessReview(ctx, Request{
			CourseID: "go-basics", ItemID: id,
			Rating: spaced_repetition.Recalled, At: sessionStart,
		})
		require.NoError(t, err)
	}

	cells, err := svc.Heatmap(ctx, "go-basics", sessionStart, 7)
	require.NoError(t, err)
	require.Len(t, cells, 7)
	require.Equal(t, dates.DayOf(sessionStart), cells[6].Day)
	require.Equal(t, 2, cells[6].Count)
	for _, c := range cells[:6] {
		require.Zero(t, c.Count)
	}
}
