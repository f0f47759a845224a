// Package review wires the pure scheduler to the progress store and
// the content catalog. It is the single entry point the UI layer
// calls: one method per interaction, each applied in call order.
package review

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/mnemo/internal/catalog"
	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/internal/spaced_repetition"
	"github.com/example/mnemo/internal/streaks"
	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

// Request is one rating event produced by the UI layer.
type Request struct {
	CourseID string
	ItemID   string
	Rating   spaced_repetition.Rating
	At       time.Time
}

// Service owns the engine's call surface. Mutations funnel through
// the one store instance, so natural call ordering serializes them.
type Service struct {
	store    *database.Store
	sm2      *spaced_repetition.SM2
	catalogs map[string]*catalog.Course
}

// NewService builds a service over an opened store and the loaded
// course catalogs.
func NewService(store *database.Store, catalogs map[string]*catalog.Course) *Service {
	if catalogs == nil {
		catalogs = map[string]*catalog.Course{}
	}
	return &Service{
		store:    store,
		sm2:      spaced_repetition.NewSM2(),
		catalogs: catalogs,
	}
}

// ProcessReview applies one rating: the scheduling transition runs in
// memory, then the new item state and the day's activity increment
// are committed together. On any error the rating is not recorded.
func (s *Service) ProcessReview(ctx context.Context, req Request) (models.ReviewItem, error) {
	if !req.Rating.IsValid() {
		return models.ReviewItem{}, fmt.Errorf("%w: %d", models.ErrInvalidRating, int(req.Rating))
	}
	prior, err := s.store.GetItem(ctx, req.CourseID, req.ItemID)
	if err != nil {
		return models.ReviewItem{}, err
	}
	next, err := s.sm2.Review(prior, req.CourseID, req.ItemID, req.Rating, req.At)
	if err != nil {
		return models.ReviewItem{}, err
	}
	if err := s.store.RecordReview(ctx, next, dates.DayOf(req.At)); err != nil {
		return models.ReviewItem{}, err
	}
	return next, nil
}

// Due returns the item ids ready for review: unseen catalog items in
// manifest order, then stored items whose due date has arrived.
func (s *Service) Due(ctx context.Context, courseID string, now time.Time) ([]string, error) {
	stored, err := s.store.ListItems(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.sm2.DueItems(stored, s.catalogOrder(courseID), now), nil
}

// DueByModule restricts Due to a single module's items, preserving
// their relative order. The "study by module" policy.
func (s *Service) DueByModule(ctx context.Context, courseID, moduleID string, now time.Time) ([]string, error) {
	course, ok := s.catalogs[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCourseNotFound, courseID)
	}
	mod := course.Module(moduleID)
	if mod == nil {
		return nil, fmt.Errorf("%w: %s has no module %s", models.ErrCourseNotFound, courseID, moduleID)
	}

	due, err := s.Due(ctx, courseID, now)
	if err != nil {
		return nil, err
	}
	inModule := make(map[string]struct{}, len(mod.Items))
	for _, id := range mod.Items {
		inModule[id] = struct{}{}
	}
	var out []string
	for _, id := range due {
		if _, ok := inModule[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// DueShuffled returns Due in a random order drawn from rng. The
// "shuffle across all modules" policy; a seeded rng makes the order
// reproducible.
func (s *Service) DueShuffled(ctx context.Context, courseID string, now time.Time, rng *rand.Rand) ([]string, error) {
	due, err := s.Due(ctx, courseID, now)
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(due), func(i, j int) {
		due[i], due[j] = due[j], due[i]
	})
	return due, nil
}

// Stats returns the streak summary for a course as of now.
func (s *Service) Stats(ctx context.Context, courseID string, now time.Time) (streaks.Summary, error) {
	log, err := s.store.Activity(ctx, courseID)
	if err != nil {
		return streaks.Summary{}, err
	}
	return streaks.Compute(log, dates.DayOf(now)), nil
}

// Heatmap returns the trailing windowDays of activity for a course.
func (s *Service) Heatmap(ctx context.Context, courseID string, now time.Time, windowDays int) ([]streaks.DayCount, error) {
	log, err := s.store.Activity(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return streaks.Heatmap(log, dates.DayOf(now), windowDays), nil
}

func (s *Service) catalogOrder(courseID string) []string {
	if course, ok := s.catalogs[courseID]; ok {
		return course.ItemIDs()
	}
	return nil
}
