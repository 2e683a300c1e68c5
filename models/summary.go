package models

import (
	"fmt"
	"time"
)

// MonthSummary is the payload of GET /api/records.
type MonthSummary struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	WorkDayCount    int     `json:"work_day_count"`
	TotalOvertime   float64 `json:"total_overtime"`
	AverageOvertime float64 `json:"average_overtime"`

	// Target tracking, meaningful only when RemainingWorkdays > 0.
	RemainingWorkdays        int     `json:"remaining_workdays"`
	AdditionalOvertimeNeeded float64 `json:"additional_overtime_needed"`
	DailyAverageNeeded       float64 `json:"daily_average_needed"`
	TargetAverage            float64 `json:"target_average"`

	// Optional extras some backends report.
	TotalWorkDays          *int     `json:"total_work_days,omitempty"`
	ActualWorkDays         *int     `json:"actual_work_days,omitempty"`
	CurrentAverageOvertime *float64 `json:"current_average_overtime,omitempty"`

	Records []Record `json:"records"`
}

func (s *MonthSummary) HasTarget() bool {
	return s.RemainingWorkdays > 0
}

func (s *MonthSummary) Label() string {
	return MonthLabel(s.Year, s.Month)
}

// HistoryEntry is one past month in GET /api/history.
type HistoryEntry struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	WorkDayCount    int     `json:"work_day_count"`
	TotalOvertime   float64 `json:"total_overtime"`
	AverageOvertime float64 `json:"average_overtime"`
}

func (h *HistoryEntry) Label() string {
	return MonthLabel(h.Year, h.Month)
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// MonthLabel renders "October 2025". Out of range months fall back to
// the numeric form.
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d-%02d", year, month)
	}
	return fmt.Sprintf("%s %d", time.Month(month), year)
}
