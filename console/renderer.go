// Package console renders the controller's output on a terminal and asks
// confirmations on stdin.
package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"overtime-ui/models"
	"overtime-ui/viewsync"
)

var statusLabels = map[models.Status]string{
	models.StatusLeave:      "leave",
	models.StatusWorked:     "workday",
	models.StatusUnrecorded: "not recorded",
}

type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) RenderMonth(v viewsync.MonthView) {
	stale := ""
	if v.Stale {
		stale = " (stale)"
	}
	fmt.Fprintf(r.out, "%s%s\n", v.Label, stale)
	fmt.Fprintf(r.out, "work days %d, total %s h, average %s h\n",
		v.WorkDays, viewsync.FormatHours(v.TotalOvertime), viewsync.FormatHours(v.AverageOvertime))

	if p := v.Progress; p.Visible {
		fmt.Fprintf(r.out, "target %s h/day: %s [%s], %d workdays left, %s h more needed, %s h per day\n",
			viewsync.FormatHours(p.TargetAverage), p.DisplayPercent(), p.Tier, p.RemainingWorkdays,
			viewsync.FormatHours(p.AdditionalOvertimeNeeded), viewsync.FormatHours(p.DailyAverageNeeded))
	}

	fmt.Fprintf(r.out, "\n%d records\n", v.RecordCount)
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tCLOCK-OUT\tSTATUS\tOVERTIME")
	if len(v.Rows) == 0 {
		fmt.Fprintln(tw, "no data")
	}
	for _, row := range v.Rows {
		overtime := row.Overtime
		if row.Emphasize {
			overtime += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Date, row.Weekday, row.ClockOut, statusLabels[row.Status], overtime)
	}
	tw.Flush()
	fmt.Fprintln(r.out)
}

func (r *Renderer) RenderHistory(v viewsync.HistoryView) {
	fmt.Fprintf(r.out, "history, %d months\n", v.Count)
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tWORK DAYS\tTOTAL\tAVERAGE\tTARGET")
	if len(v.Rows) == 0 {
		fmt.Fprintln(tw, "no history")
	}
	for _, row := range v.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s h\t%s h\t%s\n", row.Label, row.WorkDays,
			viewsync.FormatHours(row.TotalOvertime), viewsync.FormatHours(row.AverageOvertime), row.Badge)
	}
	tw.Flush()
}

func (r *Renderer) Notify(n viewsync.Notice) {
	fmt.Fprintf(r.out, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
}

func (r *Renderer) RenderForm(s viewsync.Session) {
	if s.Editing() {
		fmt.Fprintf(r.out, "editing %s\n", s.OriginalDate)
	}
}

// Prompt is a no-op. Run asks the question through the Prompter.
func (r *Renderer) Prompt(viewsync.Prompt) {}

func (r *Renderer) ScrollToForm() {}
