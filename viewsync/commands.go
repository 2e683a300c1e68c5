package viewsync

import (
	"errors"
	"fmt"

	"overtime-ui/models"
)

// Command names.
const (
	CmdLoad             = "load"
	CmdRefreshHistory   = "refresh-history"
	CmdEdit             = "edit"
	CmdRecordLoaded     = "record-loaded"
	CmdRecordLoadFailed = "record-load-failed"
	CmdChangeDate       = "change-date"
	CmdStartNew         = "start-new"
	CmdToggleLeave      = "toggle-leave"
	CmdSetClockOut      = "set-clock-out"
	CmdSubmit           = "submit"
	CmdSaved            = "saved"
	CmdCancel           = "cancel"
	CmdDelete           = "delete"
	CmdDeleteConfirmed  = "delete-confirmed"
	CmdDeleted          = "deleted"
	CmdAnswer           = "answer"
	CmdFailed           = "failed"
)

var ErrUnknownCommand = errors.New("unknown command")

// Env carries the values handlers need from outside the session.
type Env struct {
	Today           string
	DefaultClockOut string
}

// Handler is a pure transition: it never performs I/O.
type Handler func(s Session, cmd Command, env Env) (Session, []Effect)

var handlers map[string]Handler

func init() {
	handlers = map[string]Handler{
		CmdLoad:             handleLoad,
		CmdRefreshHistory:   handleRefreshHistory,
		CmdEdit:             handleEdit,
		CmdRecordLoaded:     handleRecordLoaded,
		CmdRecordLoadFailed: handleRecordLoadFailed,
		CmdChangeDate:       handleChangeDate,
		CmdStartNew:         handleStartNew,
		CmdToggleLeave:      handleToggleLeave,
		CmdSetClockOut:      handleSetClockOut,
		CmdSubmit:           handleSubmit,
		CmdSaved:            handleSaved,
		CmdCancel:           handleCancel,
		CmdDelete:           handleDelete,
		CmdDeleteConfirmed:  handleDeleteConfirmed,
		CmdDeleted:          handleDeleted,
		CmdAnswer:           handleAnswer,
		CmdFailed:           handleFailed,
	}
}

// Known reports whether name is in the dispatch table.
func Known(name string) bool {
	_, ok := handlers[name]
	return ok
}

// Dispatch applies one command. A pending prompt is discarded by any
// command other than an answer.
func Dispatch(s Session, cmd Command, env Env) (Session, []Effect, error) {
	h, ok := handlers[cmd.Name]
	if !ok {
		return s, nil, fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
	}
	if cmd.Name != CmdAnswer {
		s.Prompt = nil
	}
	next, effects := h(s, cmd, env)
	return next, effects, nil
}

func handleLoad(s Session, _ Command, _ Env) (Session, []Effect) {
	return s, []Effect{RefreshCurrentMonth{}}
}

func handleRefreshHistory(s Session, _ Command, _ Env) (Session, []Effect) {
	return s, []Effect{RefreshHistory{}}
}

func handleEdit(s Session, cmd Command, _ Env) (Session, []Effect) {
	date := cmd.Get("date")
	if date == "" {
		return s, []Effect{notifyError("no date to edit")}
	}
	return s, []Effect{FetchRecord{Date: date}}
}

func handleRecordLoaded(_ Session, cmd Command, env Env) (Session, []Effect) {
	form := Form{
		Date:     cmd.Get("date"),
		ClockOut: cmd.Get("clock_out"),
		IsLeave:  cmd.Bool("is_leave"),
	}
	if form.ClockOut == "" {
		form.ClockOut = env.DefaultClockOut
	}
	next := Session{Mode: ModeEditing, OriginalDate: form.Date, Form: form}
	return next, []Effect{RenderForm{Session: next}, ScrollToForm{}}
}

// handleRecordLoadFailed keeps the session. An edit that was confirmed
// for a newly picked date falls back to the date being edited.
func handleRecordLoadFailed(s Session, cmd Command, _ Env) (Session, []Effect) {
	effects := []Effect{notifyError(cmd.Get("message"))}
	if s.Editing() && s.Form.Date != s.OriginalDate {
		s.Form.Date = s.OriginalDate
		effects = append(effects, RenderForm{Session: s})
	}
	return s, effects
}

// handleChangeDate reinterprets a date change while editing: the user is
// asked whether to edit the newly picked date or start a new record on it.
func handleChangeDate(s Session, cmd Command, _ Env) (Session, []Effect) {
	date := cmd.Get("date")
	s.Form = mirrorForm(s.Form, cmd)
	s.Form.Date = date
	if !s.Editing() || date == s.OriginalDate {
		return s, []Effect{RenderForm{Session: s}}
	}
	no := NewCommand(CmdStartNew, "date", date)
	s.Prompt = &Prompt{
		Message: fmt.Sprintf(
			"You are editing the record for %s and picked %s. Load %s for editing? Otherwise editing stops and %s is kept as the date of a new record.",
			s.OriginalDate, date, date, date,
		),
		Yes: NewCommand(CmdEdit, "date", date),
		No:  &no,
	}
	return s, []Effect{RenderForm{Session: s}, ShowPrompt{Prompt: *s.Prompt}}
}

func handleStartNew(_ Session, cmd Command, env Env) (Session, []Effect) {
	next := NewSession(env.Today)
	if date := cmd.Get("date"); date != "" {
		next.Form.Date = date
	}
	return next, []Effect{RenderForm{Session: next}}
}

func handleToggleLeave(s Session, cmd Command, _ Env) (Session, []Effect) {
	s.Form = mirrorForm(s.Form, cmd)
	s.Form.IsLeave = cmd.Bool("is_leave")
	return s, []Effect{RenderForm{Session: s}}
}

func handleSetClockOut(s Session, cmd Command, _ Env) (Session, []Effect) {
	s.Form.ClockOut = cmd.Get("clock_out")
	return s, []Effect{RenderForm{Session: s}}
}

// handleSubmit creates in NEW and updates the original date in EDITING.
// Payload fields override the mirrored form. A different date while
// editing goes through the date-change confirmation instead of saving.
func handleSubmit(s Session, cmd Command, env Env) (Session, []Effect) {
	s.Form = mirrorForm(s.Form, cmd)
	if cmd.Has("date") && s.Editing() && cmd.Get("date") != s.OriginalDate {
		return handleChangeDate(s, NewCommand(CmdChangeDate, "date", cmd.Get("date")), env)
	}
	if cmd.Has("date") {
		s.Form.Date = cmd.Get("date")
	}

	if s.Editing() {
		p := models.NewRecordPayload(s.OriginalDate, s.Form.ClockOut, s.Form.IsLeave)
		return s, []Effect{UpdateRecord{Date: s.OriginalDate, Payload: p}}
	}
	p := models.NewRecordPayload(s.Form.Date, s.Form.ClockOut, s.Form.IsLeave)
	return s, []Effect{CreateRecord{Payload: p}}
}

// mirrorForm copies the posted clock-out and leave fields over f. The
// date is left to the caller.
func mirrorForm(f Form, cmd Command) Form {
	if cmd.Has("clock_out") {
		f.ClockOut = cmd.Get("clock_out")
	}
	if cmd.Has("is_leave") {
		f.IsLeave = cmd.Bool("is_leave")
	}
	return f
}

func handleSaved(s Session, cmd Command, env Env) (Session, []Effect) {
	effects := []Effect{notifyResult(cmd)}
	if !cmd.Bool("success") {
		return s, effects
	}
	next := NewSession(env.Today)
	return next, append(effects, RenderForm{Session: next}, RefreshCurrentMonth{})
}

func handleCancel(_ Session, _ Command, env Env) (Session, []Effect) {
	next := NewSession(env.Today)
	return next, []Effect{RenderForm{Session: next}}
}

func handleDelete(s Session, cmd Command, _ Env) (Session, []Effect) {
	date := cmd.Get("date")
	if date == "" {
		return s, []Effect{notifyError("no date to delete")}
	}
	s.Prompt = &Prompt{
		Message: fmt.Sprintf("Delete the record for %s?", date),
		Yes:     NewCommand(CmdDeleteConfirmed, "date", date),
	}
	return s, []Effect{ShowPrompt{Prompt: *s.Prompt}}
}

func handleDeleteConfirmed(s Session, cmd Command, _ Env) (Session, []Effect) {
	return s, []Effect{DeleteRecord{Date: cmd.Get("date")}}
}

func handleDeleted(s Session, cmd Command, _ Env) (Session, []Effect) {
	effects := []Effect{notifyResult(cmd)}
	if cmd.Bool("success") {
		effects = append(effects, RefreshCurrentMonth{})
	}
	return s, effects
}

// handleAnswer resolves the pending prompt into its yes or no command.
func handleAnswer(s Session, cmd Command, env Env) (Session, []Effect) {
	p := s.Prompt
	s.Prompt = nil
	if p == nil {
		return s, nil
	}
	follow := p.No
	if cmd.Bool("yes") {
		follow = &p.Yes
	}
	if follow == nil {
		return s, []Effect{RenderForm{Session: s}}
	}
	next, effects, err := Dispatch(s, *follow, env)
	if err != nil {
		return s, []Effect{notifyError(err.Error())}
	}
	return next, effects
}

// handleFailed reports a transport failure. A record fetch that failed
// this way leaves the session like a record-load-failed.
func handleFailed(s Session, cmd Command, env Env) (Session, []Effect) {
	return handleRecordLoadFailed(s, cmd, env)
}

func notifyError(msg string) Notify {
	return Notify{Notice: Notice{Level: LevelDanger, Title: "Error", Message: msg}}
}

// notifyResult surfaces the backend's message on success and failure alike.
func notifyResult(cmd Command) Notify {
	level := LevelDanger
	if cmd.Bool("success") {
		level = LevelSuccess
	}
	return Notify{Notice: Notice{Level: level, Title: "Notice", Message: cmd.Get("message")}}
}
