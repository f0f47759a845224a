// Package spaced_repetition implements the SM-2-derived state
// transition that schedules item reviews.
//
// The transition is pure: given a prior record, a rating and the
// current instant it produces the next record, with no I/O and no
// hidden state. Callers are responsible for recording each genuine
// review event exactly once; applying the same event twice compounds.
package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

// Ease-factor deltas. The algorithm family only fixes the shape of
// the adjustment, so the concrete constants live here in one place.
const (
	easeBonusRecalled    = 0.10 // successful clean recall
	easePenaltyStruggled = 0.15 // marginal success
	easePenaltyPeeked    = 0.20 // lapse
)

// Intervals for the first two successful repetitions, in days.
const (
	firstInterval  = 1
	secondInterval = 6
)

// SM2 holds the scheduling policy knobs.
type SM2 struct {
	// MaxInterval caps interval growth, in days.
	MaxInterval int
}

// NewSM2 returns a scheduler with the default policy.
func NewSM2() *SM2 {
	return &SM2{
		MaxInterval: 365,
	}
}

// Review applies one rating to an item and returns its next state.
// prior is nil for a never-seen item, in which case the record starts
// at ease 2.5 with no repetitions. The input record is not mutated.
func (s *SM2) Review(prior *models.ReviewItem, courseID, itemID string, rating Rating, now time.Time) (models.ReviewItem, error) {
	if !rating.IsValid() {
		return models.ReviewItem{}, models.ErrInvalidRating
	}

	var item models.ReviewItem
	if prior != nil {
		item = *prior
	} else {
		item = models.NewReviewItem(courseID, itemID)
	}

	switch rating {
	case Peeked:
		item.Repetitions = 0
		item.IntervalDays = 1
		item.LapseCount++
		item.EaseFactor = flooredEase(item.EaseFactor - easePenaltyPeeked)
	case Struggled, Recalled:
		item.Repetitions++
		if rating == Recalled {
			item.EaseFactor += easeBonusRecalled
		} else {
			item.EaseFactor = flooredEase(item.EaseFactor - easePenaltyStruggled)
		}
		switch item.Repetitions {
		case 1:
			item.IntervalDays = firstInterval
		case 2:
			item.IntervalDays = secondInterval
		default:
			item.IntervalDays = int(math.Round(float64(item.IntervalDays) * item.EaseFactor))
		}
		if item.IntervalDays > s.MaxInterval {
			item.IntervalDays = s.MaxInterval
		}
	}

	item.DueDate = dates.DayOf(now).AddDays(item.IntervalDays)
	item.LastReviewedAt = now
	return item, nil
}

// DueItems returns the identifiers due for review at now: every
// never-reviewed catalog item (in catalog order) followed by every
// stored item whose due date has arrived, in the order given. Both
// orders are deterministic, so repeated calls with the same inputs
// return the same sequence.
func (s *SM2) DueItems(stored []models.ReviewItem, catalogOrder []string, now time.Time) []string {
	today := dates.DayOf(now)
	seen := make(map[string]struct{}, len(stored))
	for _, it := range stored {
		seen[it.ItemID] = struct{}{}
	}

	var due []string
	for _, id := range catalogOrder {
		if _, ok := seen[id]; !ok {
			due = append(due, id)
		}
	}
	for _, it := range stored {
		if !it.DueDate.After(today) {
			due = append(due, it.ItemID)
		}
	}
	return due
}

func flooredEase(ef float64) float64 {
	if ef < models.MinEaseFactor {
		return models.MinEaseFactor
	}
	return ef
}
