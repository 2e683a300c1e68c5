package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"overtime-ui/config"
	"overtime-ui/middleware"
	"overtime-ui/models"
	"overtime-ui/tmpl"
	"overtime-ui/viewsync"
)

// formAnchor is where the browser lands after an edit loads a record.
const formAnchor = "/#record-form"

type OvertimeHandler struct {
	config     *config.Config
	templates  *tmpl.Templates
	controller *viewsync.Controller
	backend    viewsync.Backend
	sessions   *middleware.SessionCodec
	logger     *zap.Logger
}

func NewOvertimeHandler(cfg *config.Config, templates *tmpl.Templates, controller *viewsync.Controller,
	backend viewsync.Backend, sessions *middleware.SessionCodec, logger *zap.Logger) *OvertimeHandler {
	return &OvertimeHandler{
		config:     cfg,
		templates:  templates,
		controller: controller,
		backend:    backend,
		sessions:   sessions,
		logger:     logger,
	}
}

type dashboardData struct {
	Session         viewsync.Session
	Month           *viewsync.MonthView
	History         *viewsync.HistoryView
	Notices         []viewsync.Notice
	Prompt          *viewsync.Prompt
	CSRFField       template.HTML
	NotificationTTL int64
	RecordColumns   int
	HistoryColumns  int
}

// Dashboard refreshes the current month and history and renders them with
// the session's form. Pending notifications are shown once.
func (h *OvertimeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := middleware.StateFromContext(r.Context())

	page := &pageRenderer{}
	h.controller.Refresh(r.Context(), page)

	data := dashboardData{
		Session:         state.Session,
		Month:           page.month,
		History:         page.history,
		Notices:         append(state.Flash, page.notices...),
		Prompt:          state.Session.Prompt,
		CSRFField:       csrf.TemplateField(r),
		NotificationTTL: h.config.UI.NotificationTTL.Milliseconds(),
		RecordColumns:   viewsync.RecordColumns,
		HistoryColumns:  viewsync.HistoryColumns,
	}

	state.Flash = nil
	if err := h.sessions.Save(w, *state); err != nil {
		h.logger.Error("save session", zap.Error(err))
	}
	if err := h.templates.ExecuteTemplate(w, "dashboard", data); err != nil {
		h.logger.Error("render dashboard", zap.Error(err))
	}
}

// Action dispatches one command from a form post and redirects back to
// the dashboard.
func (h *OvertimeHandler) Action(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")
	if !viewsync.Known(name) {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	cmd := viewsync.Command{Name: name, Payload: make(map[string]string, len(r.PostForm))}
	for key, values := range r.PostForm {
		if key == csrfFieldName || len(values) == 0 {
			continue
		}
		cmd.Payload[key] = values[0]
	}

	state := middleware.StateFromContext(r.Context())
	page := &pageRenderer{redirects: true}
	session, err := h.controller.Dispatch(r.Context(), state.Session, cmd, page)
	if err != nil {
		if errors.Is(err, viewsync.ErrUnknownCommand) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("dispatch", zap.String("action", name), zap.Error(err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	state.Session = session
	state.Flash = append(state.Flash, page.notices...)
	if err := h.sessions.Save(w, *state); err != nil {
		h.logger.Error("save session", zap.Error(err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	target := "/"
	if page.scrolled {
		target = formAnchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ExportCSV downloads the current month's records.
func (h *OvertimeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	summary, err := h.backend.CurrentMonth(r.Context())
	if err != nil {
		h.logger.Warn("export: load current month", zap.Error(err))
		http.Error(w, "Backend unavailable", http.StatusBadGateway)
		return
	}

	filename := fmt.Sprintf("overtime_%d_%02d.csv", summary.Year, summary.Month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Date", "Weekday", "Clock-out", "Status", "Overtime hours"})
	for i, row := range viewsync.DeriveRecordRows(summary.Records) {
		overtime := ""
		if row.Status == models.StatusWorked {
			overtime = fmt.Sprintf("%.2f", summary.Records[i].OvertimeHours)
		}
		writer.Write([]string{row.Date, row.Weekday, row.ClockOut, string(row.Status), overtime})
	}
}

func (h *OvertimeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
