package models

import (
	"fmt"
	"time"

	"github.com/example/mnemo/pkg/dates"
)

// SM-2 bounds shared by the scheduler and snapshot validation.
const (
	// MinEaseFactor is the floor below which an item's ease factor
	// never drops.
	MinEaseFactor = 1.3
	// InitialEaseFactor is assigned on an item's first review.
	InitialEaseFactor = 2.5
)

// ReviewItem is the scheduling record for one reviewable unit (a
// flashcard or an exercise variant). An item that was never reviewed
// has no record at all; absence means "never studied".
type ReviewItem struct {
	ItemID         string    `json:"item_id" db:"item_id"`
	CourseID       string    `json:"course_id" db:"course_id"`
	EaseFactor     float64   `json:"ease_factor" db:"ease_factor"`
	IntervalDays   int       `json:"interval_days" db:"interval_days"`
	Repetitions    int       `json:"repetitions" db:"repetitions"`
	DueDate        dates.Day `json:"due_date" db:"due_date"`
	LastReviewedAt time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	LapseCount     int       `json:"lapse_count" db:"lapse_count"`
}

// NewReviewItem returns the initial record for a never-seen item, as
// it exists immediately before its first review is applied.
func NewReviewItem(courseID, itemID string) ReviewItem {
	return ReviewItem{
		ItemID:     itemID,
		CourseID:   courseID,
		EaseFactor: InitialEaseFactor,
	}
}

// Validate checks the scheduling invariants. It is used both after a
// review transition and when admitting items from an imported snapshot.
func (it ReviewItem) Validate() error {
	if it.ItemID == "" {
		return fmt.Errorf("review item: empty item id")
	}
	if it.CourseID == "" {
		return fmt.Errorf("review item %s: empty course id", it.ItemID)
	}
	if it.EaseFactor < MinEaseFactor {
		return fmt.Errorf("review item %s: ease factor %.3f below %.1f", it.ItemID, it.EaseFactor, MinEaseFactor)
	}
	if it.IntervalDays < 0 {
		return fmt.Errorf("review item %s: negative interval %d", it.ItemID, it.IntervalDays)
	}
	if it.Repetitions < 0 {
		return fmt.Errorf("review item %s: negative repetitions %d", it.ItemID, it.Repetitions)
	}
	if it.Repetitions >= 1 && it.IntervalDays < 1 {
		return fmt.Errorf("review item %s: interval %d with %d repetitions", it.ItemID, it.IntervalDays, it.Repetitions)
	}
	if it.LapseCount < 0 {
		return fmt.Errorf("review item %s: negative lapse count %d", it.ItemID, it.LapseCount)
	}
	return nil
}
