package viewsync

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"overtime-ui/models"
)

// Backend is the REST collaborator. *backend.Client implements it.
type Backend interface {
	CurrentMonth(ctx context.Context) (*models.MonthSummary, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
	Record(ctx context.Context, date string) (*models.RecordResult, error)
	CreateRecord(ctx context.Context, p models.RecordPayload) (*models.WriteResult, error)
	UpdateRecord(ctx context.Context, date string, p models.RecordPayload) (*models.WriteResult, error)
	DeleteRecord(ctx context.Context, date string) (*models.WriteResult, error)
}

// Renderer receives everything the controller wants shown.
type Renderer interface {
	RenderMonth(v MonthView)
	RenderHistory(v HistoryView)
	RenderForm(s Session)
	Notify(n Notice)
	Prompt(p Prompt)
	ScrollToForm()
}

// RefreshDeferrer is implemented by renderers whose views are reloaded
// after the command anyway, such as a page that redirects. Refresh
// effects are skipped for them.
type RefreshDeferrer interface {
	DeferRefresh() bool
}

func defersRefresh(r Renderer) bool {
	d, ok := r.(RefreshDeferrer)
	return ok && d.DeferRefresh()
}

// MonthView is the rendered state of the current month. Stale is set
// when the latest refresh failed and the last good data is shown.
type MonthView struct {
	Label           string
	WorkDays        int
	TotalOvertime   float64
	AverageOvertime float64
	RecordCount     int
	Progress        Progress
	Rows            []RecordRow
	Summary         *models.MonthSummary
	Stale           bool
}

type HistoryView struct {
	Rows  []HistoryRow
	Count int
	Stale bool
}

type Options struct {
	// HistoryTarget is the fixed threshold for history badges.
	HistoryTarget   float64
	DefaultClockOut string
	Clock           func() time.Time
	Logger          *zap.Logger
}

// Controller runs commands against a session, executes their effects and
// keeps the last good month and history views.
type Controller struct {
	backend Backend
	opts    Options
	logger  *zap.Logger

	mu      sync.Mutex
	month   *MonthView
	history *HistoryView

	monthSeq   sequencer
	historySeq sequencer
	recordSeq  sequencer
}

func NewController(b Backend, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HistoryTarget == 0 {
		opts.HistoryTarget = 1.5
	}
	if opts.DefaultClockOut == "" {
		opts.DefaultClockOut = "17:00"
	}
	return &Controller{
		backend: b,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// Env returns the handler environment for the current instant.
func (c *Controller) Env() Env {
	return Env{
		Today:           c.opts.Clock().Format(models.DateLayout),
		DefaultClockOut: c.opts.DefaultClockOut,
	}
}

// NewSession starts a NEW session dated today.
func (c *Controller) NewSession() Session {
	return NewSession(c.Env().Today)
}

// Dispatch applies cmd and every follow-up command produced by network
// completions, in order, and returns the resulting session.
func (c *Controller) Dispatch(ctx context.Context, s Session, cmd Command, r Renderer) (Session, error) {
	queue := []Command{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		var err error
		s, effects, err = Dispatch(s, next, c.Env())
		if err != nil {
			return s, err
		}
		for _, e := range effects {
			queue = append(queue, c.run(ctx, e, r)...)
		}
	}
	return s, nil
}

// Refresh reloads the current month and history.
func (c *Controller) Refresh(ctx context.Context, r Renderer) {
	c.refreshCurrentMonth(ctx, r)
}

// Snapshot returns copies of the last good views, nil if never loaded.
func (c *Controller) Snapshot() (*MonthView, *HistoryView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var m *MonthView
	var h *HistoryView
	if c.month != nil {
		v := *c.month
		m = &v
	}
	if c.history != nil {
		v := *c.history
		h = &v
	}
	return m, h
}

func (c *Controller) run(ctx context.Context, e Effect, r Renderer) []Command {
	switch e := e.(type) {
	case RefreshCurrentMonth:
		if !defersRefresh(r) {
			c.refreshCurrentMonth(ctx, r)
		}
	case RefreshHistory:
		if !defersRefresh(r) {
			c.refreshHistory(ctx, r)
		}
	case FetchRecord:
		return c.fetchRecord(ctx, e.Date)
	case CreateRecord:
		res, err := c.backend.CreateRecord(ctx, e.Payload)
		return c.writeOutcome(CmdSaved, "network error", res, err)
	case UpdateRecord:
		res, err := c.backend.UpdateRecord(ctx, e.Date, e.Payload)
		return c.writeOutcome(CmdSaved, "network error", res, err)
	case DeleteRecord:
		res, err := c.backend.DeleteRecord(ctx, e.Date)
		return c.writeOutcome(CmdDeleted, "delete failed", res, err)
	case Notify:
		r.Notify(e.Notice)
	case RenderForm:
		r.RenderForm(e.Session)
	case ShowPrompt:
		r.Prompt(e.Prompt)
	case ScrollToForm:
		r.ScrollToForm()
	}
	return nil
}

// refreshCurrentMonth keeps the previous view on failure and always
// continues with a history refresh.
func (c *Controller) refreshCurrentMonth(ctx context.Context, r Renderer) {
	ticket := c.ticket(&c.monthSeq)
	summary, err := c.backend.CurrentMonth(ctx)
	if err != nil {
		c.logger.Warn("load current month failed", zap.Error(err))
		r.Notify(Notice{Level: LevelDanger, Title: "Error", Message: "failed to load data: " + err.Error()})
		if m, _ := c.Snapshot(); m != nil {
			m.Stale = true
			r.RenderMonth(*m)
		}
	} else {
		view := c.monthView(summary)
		if c.store(&c.monthSeq, ticket, func() { c.month = &view }) {
			r.RenderMonth(view)
		} else {
			c.logger.Debug("dropped stale current month response", zap.Uint64("ticket", ticket))
		}
	}
	c.refreshHistory(ctx, r)
}

// refreshHistory never notifies the user: history is supplementary.
func (c *Controller) refreshHistory(ctx context.Context, r Renderer) {
	ticket := c.ticket(&c.historySeq)
	entries, err := c.backend.History(ctx)
	if err != nil {
		c.logger.Warn("load history failed", zap.Error(err))
		if _, h := c.Snapshot(); h != nil {
			h.Stale = true
			r.RenderHistory(*h)
		}
		return
	}
	view := HistoryView{
		Rows:  DeriveHistoryRows(entries, c.opts.HistoryTarget),
		Count: len(entries),
	}
	if c.store(&c.historySeq, ticket, func() { c.history = &view }) {
		r.RenderHistory(view)
	} else {
		c.logger.Debug("dropped stale history response", zap.Uint64("ticket", ticket))
	}
}

func (c *Controller) fetchRecord(ctx context.Context, date string) []Command {
	ticket := c.ticket(&c.recordSeq)
	res, err := c.backend.Record(ctx, date)
	if !c.store(&c.recordSeq, ticket, func() {}) {
		c.logger.Debug("dropped stale record response", zap.String("date", date))
		return nil
	}
	if err != nil {
		c.logger.Warn("load record failed", zap.String("date", date), zap.Error(err))
		return []Command{NewCommand(CmdFailed, "message", "failed to load record: "+err.Error())}
	}
	if !res.Success || res.Data == nil {
		msg := res.Message
		if msg == "" {
			msg = "record not found"
		}
		return []Command{NewCommand(CmdRecordLoadFailed, "message", msg)}
	}
	loadedDate := res.Data.Date
	if loadedDate == "" {
		loadedDate = date
	}
	return []Command{NewCommand(CmdRecordLoaded,
		"date", loadedDate,
		"clock_out", res.Data.ClockOut,
		"is_leave", strconv.FormatBool(res.Data.IsLeave),
	)}
}

func (c *Controller) writeOutcome(name, prefix string, res *models.WriteResult, err error) []Command {
	if err != nil {
		c.logger.Warn("write failed", zap.String("command", name), zap.Error(err))
		return []Command{NewCommand(CmdFailed, "message", prefix+": "+err.Error())}
	}
	return []Command{NewCommand(name,
		"success", strconv.FormatBool(res.Success),
		"message", res.Message,
	)}
}

func (c *Controller) monthView(s *models.MonthSummary) MonthView {
	return MonthView{
		Label:           s.Label(),
		WorkDays:        s.WorkDayCount,
		TotalOvertime:   s.TotalOvertime,
		AverageOvertime: s.AverageOvertime,
		RecordCount:     len(s.Records),
		Progress:        ComputeProgress(s),
		Rows:            DeriveRecordRows(s.Records),
		Summary:         s,
	}
}

func (c *Controller) ticket(seq *sequencer) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq.next()
}

// store runs apply under the lock if ticket is not older than the newest
// applied one.
func (c *Controller) store(seq *sequencer, ticket uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !seq.accept(ticket) {
		return false
	}
	apply()
	return true
}
