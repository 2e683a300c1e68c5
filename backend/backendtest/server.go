// Package backendtest simulates the attendance backend in memory. It
// serves the same endpoints as the real backend and is used by tests
// and by `serve --demo`.
package backendtest

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"overtime-ui/models"
)

const standardEnd = 17 * 60

type Server struct {
	mu      sync.Mutex
	records map[string]models.Record
	now     func() time.Time

	// Target is the average overtime per workday the current month is
	// tracked against.
	Target float64
}

func New(now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{
		records: make(map[string]models.Record),
		now:     now,
		Target:  1.5,
	}
}

// Put stores a record directly, computing its overtime like the API does.
func (s *Server) Put(date, clockOut string, isLeave bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[date] = newRecord(date, clockOut, isLeave)
}

func (s *Server) Get(date string) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[date]
	return r, ok
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/records", s.currentMonth)
	r.Get("/api/history", s.history)
	r.Get("/api/record/{date}", s.getRecord)
	r.Post("/api/record", s.createRecord)
	r.Put("/api/record/{date}", s.updateRecord)
	r.Delete("/api/record/{date}", s.deleteRecord)
	return r
}

func (s *Server) currentMonth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	records := s.monthRecords(today.Year(), int(today.Month()))
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })

	total, count := workTotals(records)
	summary := models.MonthSummary{
		Year:            today.Year(),
		Month:           int(today.Month()),
		WorkDayCount:    count,
		TotalOvertime:   round2(total),
		AverageOvertime: round2(average(total, count)),
		TargetAverage:   s.Target,
		Records:         records,
	}

	remaining := s.remainingWorkdays(today)
	summary.RemainingWorkdays = remaining
	additional := math.Max(0, s.Target*float64(count+remaining)-total)
	summary.AdditionalOvertimeNeeded = round2(additional)
	if remaining > 0 {
		summary.DailyAverageNeeded = round2(additional / float64(remaining))
	}
	writeJSON(w, summary)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := map[[2]int]bool{}
	for _, rec := range s.records {
		day, err := rec.Day()
		if err != nil {
			continue
		}
		months[[2]int{day.Year(), int(day.Month())}] = true
	}
	keys := make([][2]int, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] > keys[j][0]
		}
		return keys[i][1] > keys[j][1]
	})

	history := make([]models.HistoryEntry, 0, len(keys))
	for _, k := range keys {
		total, count := workTotals(s.monthRecords(k[0], k[1]))
		history = append(history, models.HistoryEntry{
			Year:            k[0],
			Month:           k[1],
			WorkDayCount:    count,
			TotalOvertime:   round2(total),
			AverageOvertime: round2(average(total, count)),
		})
	}
	writeJSON(w, models.HistoryResponse{History: history})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.Get(chi.URLParam(r, "date"))
	if !ok {
		writeJSON(w, models.RecordResult{Success: false, Message: "record not found"})
		return
	}
	writeJSON(w, models.RecordResult{Success: true, Data: &rec})
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	var p models.RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, models.WriteResult{Success: false, Message: "invalid request body"})
		return
	}
	if p.Date == "" {
		writeJSON(w, models.WriteResult{Success: false, Message: "date is required"})
		return
	}
	s.Put(p.Date, deref(p.ClockOut), p.IsLeave)
	writeJSON(w, models.WriteResult{Success: true, Message: "record saved"})
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	var p models.RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, models.WriteResult{Success: false, Message: "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[date]; !ok {
		writeJSON(w, models.WriteResult{Success: false, Message: "update failed, record not found"})
		return
	}
	s.records[date] = newRecord(date, deref(p.ClockOut), p.IsLeave)
	writeJSON(w, models.WriteResult{Success: true, Message: "record updated"})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[date]; !ok {
		writeJSON(w, models.WriteResult{Success: false, Message: "delete failed"})
		return
	}
	delete(s.records, date)
	writeJSON(w, models.WriteResult{Success: true, Message: "record deleted"})
}

// monthRecords must be called with s.mu held.
func (s *Server) monthRecords(year, month int) []models.Record {
	prefix := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-")
	var out []models.Record
	for date, rec := range s.records {
		if strings.HasPrefix(date, prefix) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// remainingWorkdays counts weekdays from today to month end that have no
// record yet. Must be called with s.mu held.
func (s *Server) remainingWorkdays(today time.Time) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	n := 0
	for d := day; d.Month() == day.Month(); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, ok := s.records[d.Format(models.DateLayout)]; ok {
			continue
		}
		n++
	}
	return n
}

func newRecord(date, clockOut string, isLeave bool) models.Record {
	rec := models.Record{Date: date, IsLeave: isLeave}
	if isLeave {
		return rec
	}
	rec.ClockOut = clockOut
	if t, err := time.Parse(models.TimeLayout, clockOut); err == nil {
		if minutes := t.Hour()*60 + t.Minute(); minutes > standardEnd {
			rec.OvertimeHours = float64(minutes-standardEnd) / 60
		}
	}
	return rec
}

func workTotals(records []models.Record) (float64, int) {
	var total float64
	count := 0
	for _, rec := range records {
		if rec.IsLeave || rec.ClockOut == "" {
			continue
		}
		total += rec.OvertimeHours
		count++
	}
	return total, count
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
