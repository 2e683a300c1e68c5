package viewsync

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"overtime-ui/backend"
	"overtime-ui/backend/backendtest"
	"overtime-ui/models"
)

type recordingRenderer struct {
	months   []MonthView
	history  []HistoryView
	forms    []Session
	notices  []Notice
	prompts  []Prompt
	scrolled int
}

func (r *recordingRenderer) RenderMonth(v MonthView)     { r.months = append(r.months, v) }
func (r *recordingRenderer) RenderHistory(v HistoryView) { r.history = append(r.history, v) }
func (r *recordingRenderer) RenderForm(s Session)        { r.forms = append(r.forms, s) }
func (r *recordingRenderer) Notify(n Notice)             { r.notices = append(r.notices, n) }
func (r *recordingRenderer) Prompt(p Prompt)             { r.prompts = append(r.prompts, p) }
func (r *recordingRenderer) ScrollToForm()               { r.scrolled++ }

// stubBackend fails the calls whose error field is set.
type stubBackend struct {
	month      *models.MonthSummary
	monthErr   error
	history    []models.HistoryEntry
	historyErr error
	writeErr   error
	write      models.WriteResult
	monthCalls int
}

func (b *stubBackend) CurrentMonth(context.Context) (*models.MonthSummary, error) {
	b.monthCalls++
	return b.month, b.monthErr
}
func (b *stubBackend) History(context.Context) ([]models.HistoryEntry, error) {
	return b.history, b.historyErr
}
func (b *stubBackend) Record(context.Context, string) (*models.RecordResult, error) {
	return &models.RecordResult{Success: false, Message: "record not found"}, nil
}
func (b *stubBackend) CreateRecord(context.Context, models.RecordPayload) (*models.WriteResult, error) {
	return &b.write, b.writeErr
}
func (b *stubBackend) UpdateRecord(context.Context, string, models.RecordPayload) (*models.WriteResult, error) {
	return &b.write, b.writeErr
}
func (b *stubBackend) DeleteRecord(context.Context, string) (*models.WriteResult, error) {
	return &b.write, b.writeErr
}

func testClock() time.Time {
	return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
}

func newSimulated(t *testing.T) (*Controller, *backendtest.Server) {
	t.Helper()
	fake := backendtest.New(testClock)
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)
	c := NewController(backend.NewClient(srv.URL), Options{HistoryTarget: 1.5, Clock: testClock})
	return c, fake
}

func TestSubmitThenEditRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		clockOut string
		leave    bool
		wantOut  string
	}{
		{"worked day", "19:45", false, "19:45"},
		{"leave day", "19:45", true, "17:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newSimulated(t)
			ctx := context.Background()
			r := &recordingRenderer{}

			s := c.NewSession()
			s, err := c.Dispatch(ctx, s, NewCommand(CmdSubmit,
				"date", "2024-05-14", "clock_out", tt.clockOut, "is_leave", boolString(tt.leave)), r)
			if err != nil {
				t.Fatal(err)
			}
			if s.Mode != ModeNew || s.Form.Date != "2024-05-20" {
				t.Fatalf("after save = %+v", s)
			}
			if len(r.notices) == 0 || r.notices[0].Level != LevelSuccess {
				t.Fatalf("notices = %+v", r.notices)
			}
			if len(r.months) != 1 || r.months[0].RecordCount != 1 {
				t.Fatalf("month renders = %+v", r.months)
			}

			s, err = c.Dispatch(ctx, s, NewCommand(CmdEdit, "date", "2024-05-14"), r)
			if err != nil {
				t.Fatal(err)
			}
			if !s.Editing() || s.OriginalDate != "2024-05-14" {
				t.Fatalf("after edit = %+v", s)
			}
			if s.Form.IsLeave != tt.leave || s.Form.ClockOut != tt.wantOut {
				t.Errorf("form = %+v", s.Form)
			}
			if r.scrolled != 1 {
				t.Errorf("scrolled %d times", r.scrolled)
			}
		})
	}
}

func TestUpdateTargetsOriginalDate(t *testing.T) {
	c, fake := newSimulated(t)
	fake.Put("2024-05-10", "18:00", false)
	ctx := context.Background()
	r := &recordingRenderer{}

	s, err := c.Dispatch(ctx, c.NewSession(), NewCommand(CmdEdit, "date", "2024-05-10"), r)
	if err != nil {
		t.Fatal(err)
	}
	s, err = c.Dispatch(ctx, s, NewCommand(CmdSubmit, "date", "2024-05-10", "clock_out", "20:00"), r)
	if err != nil {
		t.Fatal(err)
	}
	if s.Editing() {
		t.Error("still editing after update")
	}
	got, _ := fake.Get("2024-05-10")
	if got.ClockOut != "20:00" || got.OvertimeHours != 3 {
		t.Errorf("stored = %+v", got)
	}
}

func TestDeleteFlow(t *testing.T) {
	c, fake := newSimulated(t)
	fake.Put("2024-05-10", "18:00", false)
	ctx := context.Background()
	r := &recordingRenderer{}

	s, _ := c.Dispatch(ctx, c.NewSession(), NewCommand(CmdDelete, "date", "2024-05-10"), r)
	if len(r.prompts) != 1 || !strings.Contains(r.prompts[0].Message, "2024-05-10") {
		t.Fatalf("prompts = %+v", r.prompts)
	}
	if _, ok := fake.Get("2024-05-10"); !ok {
		t.Fatal("deleted before confirmation")
	}

	if _, err := c.Dispatch(ctx, s, NewCommand(CmdAnswer, "yes", "true"), r); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.Get("2024-05-10"); ok {
		t.Error("record still present")
	}
	last := r.months[len(r.months)-1]
	if last.RecordCount != 0 || len(last.Rows) != 0 {
		t.Errorf("month after delete = %+v", last)
	}
}

func TestEditMissingRecordStaysNew(t *testing.T) {
	c, _ := newSimulated(t)
	r := &recordingRenderer{}

	s, err := c.Dispatch(context.Background(), c.NewSession(), NewCommand(CmdEdit, "date", "2024-05-02"), r)
	if err != nil {
		t.Fatal(err)
	}
	if s.Editing() {
		t.Errorf("session = %+v", s)
	}
	if len(r.notices) != 1 || r.notices[0].Level != LevelDanger {
		t.Errorf("notices = %+v", r.notices)
	}
}

func TestRefreshFailureKeepsLastGoodView(t *testing.T) {
	b := &stubBackend{
		month:   &models.MonthSummary{Year: 2024, Month: 5, WorkDayCount: 2, Records: []models.Record{{Date: "2024-05-02", ClockOut: "18:00", OvertimeHours: 1}}},
		history: []models.HistoryEntry{{Year: 2024, Month: 5, WorkDayCount: 2, AverageOvertime: 1}},
	}
	c := NewController(b, Options{Clock: testClock})
	r := &recordingRenderer{}
	c.Refresh(context.Background(), r)
	if len(r.months) != 1 || len(r.history) != 1 || len(r.notices) != 0 {
		t.Fatalf("first refresh: months=%d history=%d notices=%+v", len(r.months), len(r.history), r.notices)
	}

	b.monthErr = errors.New("connection refused")
	b.historyErr = errors.New("connection refused")
	r = &recordingRenderer{}
	c.Refresh(context.Background(), r)

	if len(r.notices) != 1 || !strings.Contains(r.notices[0].Message, "connection refused") {
		t.Errorf("notices = %+v, want one for the current month only", r.notices)
	}
	if len(r.months) != 1 || !r.months[0].Stale || r.months[0].WorkDays != 2 {
		t.Errorf("months = %+v, want stale last good view", r.months)
	}
	if len(r.history) != 1 || !r.history[0].Stale {
		t.Errorf("history = %+v, want stale last good view", r.history)
	}
}

func TestHistoryRefreshedEvenWhenMonthFails(t *testing.T) {
	b := &stubBackend{monthErr: errors.New("timeout"), history: []models.HistoryEntry{{Year: 2024, Month: 4}}}
	c := NewController(b, Options{Clock: testClock})
	r := &recordingRenderer{}
	c.Refresh(context.Background(), r)
	if len(r.history) != 1 || r.history[0].Count != 1 {
		t.Errorf("history = %+v", r.history)
	}
}

func TestWriteTransportErrorNotifies(t *testing.T) {
	b := &stubBackend{writeErr: errors.New("dial tcp: refused")}
	c := NewController(b, Options{Clock: testClock})
	r := &recordingRenderer{}

	s, err := c.Dispatch(context.Background(), c.NewSession(), NewCommand(CmdSubmit, "date", "2024-05-02", "clock_out", "18:00"), r)
	if err != nil {
		t.Fatal(err)
	}
	if s.Form.Date != "2024-05-02" {
		t.Errorf("form reset after failure: %+v", s.Form)
	}
	if len(r.notices) != 1 || r.notices[0].Message != "network error: dial tcp: refused" {
		t.Errorf("notices = %+v", r.notices)
	}
	if len(r.months) != 0 {
		t.Error("refreshed after failed save")
	}
}

type deferringRenderer struct {
	recordingRenderer
}

func (r *deferringRenderer) DeferRefresh() bool { return true }

func TestDeferredRefreshSkipsReload(t *testing.T) {
	b := &stubBackend{
		month: &models.MonthSummary{Year: 2024, Month: 5},
		write: models.WriteResult{Success: true, Message: "record saved"},
	}
	c := NewController(b, Options{Clock: testClock})
	r := &deferringRenderer{}

	s, err := c.Dispatch(context.Background(), c.NewSession(), NewCommand(CmdSubmit, "date", "2024-05-02", "clock_out", "18:00"), r)
	if err != nil {
		t.Fatal(err)
	}
	if b.monthCalls != 0 || len(r.months) != 0 || len(r.history) != 0 {
		t.Errorf("refreshed: calls=%d months=%d history=%d", b.monthCalls, len(r.months), len(r.history))
	}
	if s.Mode != ModeNew || len(r.notices) != 1 || r.notices[0].Message != "record saved" {
		t.Errorf("session = %+v notices = %+v", s, r.notices)
	}

	c.Refresh(context.Background(), r)
	if b.monthCalls != 1 {
		t.Errorf("explicit refresh calls = %d", b.monthCalls)
	}
}

func TestSequencerDropsOlderCompletions(t *testing.T) {
	var s sequencer
	first := s.next()
	second := s.next()
	if !s.accept(second) {
		t.Fatal("newest ticket rejected")
	}
	if s.accept(first) {
		t.Error("older ticket accepted after newer one")
	}
	if !s.accept(s.next()) {
		t.Error("fresh ticket rejected")
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
