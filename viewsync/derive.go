package viewsync

import (
	"strconv"

	"overtime-ui/models"
)

const (
	RecordColumns  = 6
	HistoryColumns = 5

	placeholder = "-"
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayName maps a YYYY-MM-DD date to its short weekday name.
func WeekdayName(date string) string {
	rec := models.Record{Date: date}
	day, err := rec.Day()
	if err != nil {
		return placeholder
	}
	return weekdayNames[day.Weekday()]
}

type RecordRow struct {
	Date     string
	Weekday  string
	ClockOut string
	Status   models.Status
	Overtime string
	// Emphasize marks a positive overtime value.
	Emphasize bool
}

func DeriveRecordRows(records []models.Record) []RecordRow {
	rows := make([]RecordRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := RecordRow{
			Date:     rec.Date,
			Weekday:  WeekdayName(rec.Date),
			ClockOut: orPlaceholder(rec.ClockOut),
			Status:   rec.Status(),
			Overtime: placeholder,
		}
		if row.Status == models.StatusWorked {
			row.Overtime = FormatHours(rec.OvertimeHours) + " h"
			row.Emphasize = rec.OvertimeHours > 0
		}
		rows = append(rows, row)
	}
	return rows
}

// Badge is the target-achievement label of a history month.
type Badge string

const (
	BadgeNoData      Badge = "no-data"
	BadgeAchieved    Badge = "achieved"
	BadgeNotAchieved Badge = "not-achieved"
)

// totalEmphasisHours is the monthly total above which history highlights it.
const totalEmphasisHours = 10

type HistoryRow struct {
	Label           string
	WorkDays        int
	TotalOvertime   float64
	AverageOvertime float64
	Badge           Badge

	EmphasizeTotal bool
	// AverageTier is success or warning for a positive average, empty otherwise.
	AverageTier Tier
}

// DeriveHistoryRows classifies past months against the fixed history
// target, not against any per-month target the backend reported.
func DeriveHistoryRows(entries []models.HistoryEntry, target float64) []HistoryRow {
	rows := make([]HistoryRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		row := HistoryRow{
			Label:           e.Label(),
			WorkDays:        e.WorkDayCount,
			TotalOvertime:   e.TotalOvertime,
			AverageOvertime: e.AverageOvertime,
			Badge:           HistoryBadge(e.WorkDayCount, e.AverageOvertime, target),
			EmphasizeTotal:  e.TotalOvertime > totalEmphasisHours,
		}
		if e.AverageOvertime > 0 {
			row.AverageTier = TierWarning
			if e.AverageOvertime >= target {
				row.AverageTier = TierSuccess
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func HistoryBadge(workDays int, average, target float64) Badge {
	switch {
	case workDays == 0:
		return BadgeNoData
	case average >= target:
		return BadgeAchieved
	default:
		return BadgeNotAchieved
	}
}

// FormatHours prints hours without trailing zeros, as the backend sent them.
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
