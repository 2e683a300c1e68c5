package viewsync

import (
	"fmt"
	"math"

	"overtime-ui/models"
)

// Tier is the color band of the target progress bar.
type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

// warningRatio is the share of the target above which a shortfall is
// only a warning.
const warningRatio = 0.8

// Progress is the target widget state for the current month.
type Progress struct {
	Visible bool
	Percent float64
	Tier    Tier

	RemainingWorkdays        int
	AdditionalOvertimeNeeded float64
	DailyAverageNeeded       float64
	TargetAverage            float64
}

// DisplayPercent rounds the percent to the nearest integer, e.g. "87%".
func (p Progress) DisplayPercent() string {
	return fmt.Sprintf("%d%%", int(math.Round(p.Percent)))
}

// ComputeProgress derives the widget from a month summary. The widget is
// hidden unless the backend reports remaining workdays.
func ComputeProgress(s *models.MonthSummary) Progress {
	if s == nil || !s.HasTarget() {
		return Progress{}
	}
	return Progress{
		Visible:                  true,
		Percent:                  ProgressPercent(s.AverageOvertime, s.TargetAverage),
		Tier:                     ClassifyTier(s.AverageOvertime, s.TargetAverage),
		RemainingWorkdays:        s.RemainingWorkdays,
		AdditionalOvertimeNeeded: s.AdditionalOvertimeNeeded,
		DailyAverageNeeded:       s.DailyAverageNeeded,
		TargetAverage:            s.TargetAverage,
	}
}

// ProgressPercent is average/target as a percentage clamped to [0, 100].
// A non-positive target counts as met.
func ProgressPercent(average, target float64) float64 {
	if target <= 0 {
		return 100
	}
	p := average / target * 100
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ClassifyTier puts every (average, target) pair in exactly one tier.
func ClassifyTier(average, target float64) Tier {
	switch {
	case average >= target:
		return TierSuccess
	case average >= target*warningRatio:
		return TierWarning
	default:
		return TierDanger
	}
}
