package viewsync

import (
	"strconv"
)

type Mode string

const (
	ModeNew     Mode = "new"
	ModeEditing Mode = "editing"
)

// Form mirrors the record form fields.
type Form struct {
	Date     string `json:"date"`
	ClockOut string `json:"clock_out,omitempty"`
	IsLeave  bool   `json:"is_leave,omitempty"`
}

// ClockOutEnabled reports whether the clock-out input accepts a value.
func (f Form) ClockOutEnabled() bool {
	return !f.IsLeave
}

// Session is the edit session. OriginalDate is set only in ModeEditing
// and Prompt only while a confirmation is pending.
type Session struct {
	Mode         Mode    `json:"mode"`
	OriginalDate string  `json:"original_date,omitempty"`
	Form         Form    `json:"form"`
	Prompt       *Prompt `json:"prompt,omitempty"`
}

// NewSession returns the NEW state with the form defaults.
func NewSession(today string) Session {
	return Session{Mode: ModeNew, Form: Form{Date: today}}
}

func (s Session) Editing() bool {
	return s.Mode == ModeEditing
}

func (s Session) SubmitLabel() string {
	if s.Editing() {
		return "Update"
	}
	return "Save"
}

// Prompt is a pending yes/no confirmation. No may be nil, meaning
// declining does nothing.
type Prompt struct {
	Message string   `json:"message"`
	Yes     Command  `json:"yes"`
	No      *Command `json:"no,omitempty"`
}

// Command is one dispatchable action with string-valued arguments, as
// they arrive from a form post or the command line.
type Command struct {
	Name    string            `json:"name"`
	Payload map[string]string `json:"payload,omitempty"`
}

func NewCommand(name string, kv ...string) Command {
	cmd := Command{Name: name}
	if len(kv) > 0 {
		cmd.Payload = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			cmd.Payload[kv[i]] = kv[i+1]
		}
	}
	return cmd
}

func (c Command) Get(key string) string {
	return c.Payload[key]
}

func (c Command) Has(key string) bool {
	_, ok := c.Payload[key]
	return ok
}

// Bool accepts what checkboxes and selects post ("true", "on", "1").
func (c Command) Bool(key string) bool {
	v := c.Payload[key]
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
