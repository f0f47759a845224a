// Package streaks derives streak and heatmap statistics from the
// activity log. The log is the only source of truth; everything here
// is recomputed on demand so no cached counter can drift from it.
package streaks

import (
	"sort"

	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

// Summary is the derived streak state for one course.
type Summary struct {
	// Current is the length of the run of consecutive active days
	// ending today or yesterday. A quiet today does not break a run
	// anchored at yesterday; the day has not passed yet.
	Current int
	// Best is the longest run anywhere in the log, including the
	// current one.
	Best int
	// Today is the raw activity count for today.
	Today int
	// LastActiveDay is the most recent day with activity. Meaningful
	// only when Best > 0.
	LastActiveDay dates.Day
}

// DayCount is one heatmap cell.
type DayCount struct {
	Day   dates.Day `json:"day"`
	Count int       `json:"count"`
}

// Compute walks the activity log and returns the streak summary as of
// the given day.
func Compute(log models.ActivityLog, today dates.Day) Summary {
	s := Summary{Today: log[today]}

	// Current streak: anchored at today when today has activity,
	// otherwise at yesterday.
	anchor := today
	if log[anchor] == 0 {
		anchor = today.AddDays(-1)
	}
	for log[anchor] > 0 {
		s.Current++
		anchor = anchor.AddDays(-1)
	}

	// Best streak: scan every run in day order.
	days := make([]dates.Day, 0, len(log))
	for day, count := range log {
		if count > 0 {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	run := 0
	for i, day := range days {
		if i > 0 && day == days[i-1].AddDays(1) {
			run++
		} else {
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
	}
	if len(days) > 0 {
		s.LastActiveDay = days[len(days)-1]
	}
	return s
}

// Heatmap returns the trailing windowDays of activity ending today,
// oldest first, with zero counts filled in for quiet days.
func Heatmap(log models.ActivityLog, today dates.Day, windowDays int) []DayCount {
	if windowDays <= 0 {
		return nil
	}
	cells := make([]DayCount, windowDays)
	start := today.AddDays(1 - windowDays)
	for i := range cells {
		day := start.AddDays(i)
		cells[i] = DayCount{Day: day, Count: log[day]}
	}
	return cells
}
