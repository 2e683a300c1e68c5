package handlers

import (
	"overtime-ui/viewsync"
)

// pageRenderer collects what the controller renders during one request.
// redirects is set for actions, whose target dashboard refreshes the views
// itself.
type pageRenderer struct {
	month     *viewsync.MonthView
	history   *viewsync.HistoryView
	notices   []viewsync.Notice
	scrolled  bool
	redirects bool
}

func (p *pageRenderer) RenderMonth(v viewsync.MonthView)     { p.month = &v }
func (p *pageRenderer) RenderHistory(v viewsync.HistoryView) { p.history = &v }
func (p *pageRenderer) Notify(n viewsync.Notice)             { p.notices = append(p.notices, n) }
func (p *pageRenderer) ScrollToForm()                        { p.scrolled = true }
func (p *pageRenderer) DeferRefresh() bool                   { return p.redirects }

// The form and the pending prompt are read from the session when the
// dashboard is rendered.
func (p *pageRenderer) RenderForm(viewsync.Session) {}
func (p *pageRenderer) Prompt(viewsync.Prompt)      {}
