package viewsync

import (
	"overtime-ui/models"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelDanger  Level = "danger"
)

// Notice is a transient notification.
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Effect is a side effect requested by a command handler. The Controller
// executes effects; handlers never touch the network or the renderer.
type Effect interface {
	effect()
}

type RefreshCurrentMonth struct{}

type RefreshHistory struct{}

type FetchRecord struct {
	Date string
}

type CreateRecord struct {
	Payload models.RecordPayload
}

// UpdateRecord is addressed by the session's original date.
type UpdateRecord struct {
	Date    string
	Payload models.RecordPayload
}

type DeleteRecord struct {
	Date string
}

type Notify struct {
	Notice Notice
}

type RenderForm struct {
	Session Session
}

type ShowPrompt struct {
	Prompt Prompt
}

type ScrollToForm struct{}

func (RefreshCurrentMonth) effect() {}
func (RefreshHistory) effect()      {}
func (FetchRecord) effect()         {}
func (CreateRecord) effect()        {}
func (UpdateRecord) effect()        {}
func (DeleteRecord) effect()        {}
func (Notify) effect()              {}
func (RenderForm) effect()          {}
func (ShowPrompt) effect()          {}
func (ScrollToForm) effect()        {}
