// Package excel renders a progress report spreadsheet: one sheet of
// scheduling state and one sheet of recent activity per course. The
// report is a human-readable view; backups use the JSON snapshot.
package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/mnemo/internal/streaks"
	"github.com/example/mnemo/pkg/dates"
	"github.com/example/mnemo/pkg/models"
)

var itemHeaders = []string{"Item", "Ease", "Interval (days)", "Repetitions", "Lapses", "Due", "Last reviewed"}

// WriteReport writes a progress report for every course in the ledger
// to path. windowDays controls the activity sheet's trailing window.
func WriteReport(path string, ledger *models.ProgressLedger, now time.Time, windowDays int) error {
	f := excelize.NewFile()
	defer f.Close()

	courseIDs := make([]string, 0, len(ledger.Courses))
	for id := range ledger.Courses {
		courseIDs = append(courseIDs, id)
	}
	sort.Strings(courseIDs)

	today := dates.DayOf(now)
	first := true
	for _, courseID := range courseIDs {
		cp := ledger.Courses[courseID]

		itemSheet := courseID + " items"
		if first {
			// Reuse the default sheet for the first course.
			if err := f.SetSheetName("Sheet1", itemSheet); err != nil {
				return fmt.Errorf("excel: rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(itemSheet); err != nil {
			return fmt.Errorf("excel: new sheet: %w", err)
		}
		if err := writeItems(f, itemSheet, cp.Items); err != nil {
			return err
		}

		activitySheet := courseID + " activity"
		if _, err := f.NewSheet(activitySheet); err != nil {
			return fmt.Errorf("excel: new sheet: %w", err)
		}
		if err := writeActivity(f, activitySheet, cp.Activity, today, windowDays); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: save %s: %w", path, err)
	}
	return nil
}

func writeItems(f *excelize.File, sheet string, items map[string]models.ReviewItem) error {
	for col, h := range itemHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("excel: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: write header: %w", err)
		}
	}

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for row, id := range ids {
		it := items[id]
		values := []interface{}{
			it.ItemID,
			it.EaseFactor,
			it.IntervalDays,
			it.Repetitions,
			it.LapseCount,
			it.DueDate.String(),
			it.LastReviewedAt.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("excel: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: write item row: %w", err)
			}
		}
	}
	return nil
}

func writeActivity(f *excelize.File, sheet string, log models.ActivityLog, today dates.Day, windowDays int) error {
	if err := f.SetCellValue(sheet, "A1", "Day"); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", "Reviews"); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}
	for i, cell := range streaks.Heatmap(log, today, windowDays) {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), cell.Day.String()); err != nil {
			return fmt.Errorf("excel: write activity row: %w", err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cell.Count); err != nil {
			return fmt.Errorf("excel: write activity row: %w", err)
		}
	}
	return nil
}
