package tmpl

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"overtime-ui/models"
	"overtime-ui/templates"
	"overtime-ui/viewsync"
)

// Templates holds the page templates, keyed by page name.
type Templates struct {
	pages map[string]*template.Template
}

// ExecuteTemplate renders a page through the base layout.
func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return page.ExecuteTemplate(w, "base", data)
}

var statusLabels = map[models.Status]string{
	models.StatusLeave:      "Leave",
	models.StatusWorked:     "Workday",
	models.StatusUnrecorded: "Not recorded",
}

var statusClasses = map[models.Status]string{
	models.StatusLeave:      "bg-secondary",
	models.StatusWorked:     "bg-success",
	models.StatusUnrecorded: "bg-light text-dark",
}

var badgeLabels = map[viewsync.Badge]string{
	viewsync.BadgeNoData:      "No data",
	viewsync.BadgeAchieved:    "Achieved",
	viewsync.BadgeNotAchieved: "Not achieved",
}

var badgeClasses = map[viewsync.Badge]string{
	viewsync.BadgeNoData:      "bg-light text-dark",
	viewsync.BadgeAchieved:    "bg-success",
	viewsync.BadgeNotAchieved: "bg-warning",
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"hours":       viewsync.FormatHours,
		"statusLabel": func(s models.Status) string { return statusLabels[s] },
		"statusClass": func(s models.Status) string { return statusClasses[s] },
		"badgeLabel":  func(b viewsync.Badge) string { return badgeLabels[b] },
		"badgeClass":  func(b viewsync.Badge) string { return badgeClasses[b] },
		"percentWidth": func(p float64) template.CSS {
			return template.CSS(fmt.Sprintf("%.2f%%", p))
		},
	}
}

// Load parses every page against the shared base layout.
func Load() (*Templates, error) {
	return LoadFS(templates.FS, "dashboard")
}

func LoadFS(fsys fs.FS, pages ...string) (*Templates, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("").Funcs(FuncMap()).ParseFS(fsys, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		out[page] = t
	}
	return &Templates{pages: out}, nil
}
