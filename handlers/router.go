package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"overtime-ui/middleware"
)

const csrfFieldName = "gorilla.csrf.Token"

// RouterOptions configures NewRouter. A nil CSRFKey disables CSRF
// protection, which tests rely on.
type RouterOptions struct {
	CSRFKey      []byte
	SecureCookie bool
}

func NewRouter(h *OvertimeHandler, opts RouterOptions) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", h.Healthz)

	router.Group(func(r chi.Router) {
		if opts.CSRFKey != nil {
			r.Use(csrf.Protect(opts.CSRFKey,
				csrf.Secure(opts.SecureCookie),
				csrf.Path("/"),
				csrf.FieldName(csrfFieldName),
			))
		}
		r.Use(h.sessions.Middleware(h.controller.NewSession))

		r.Get("/", h.Dashboard)
		r.Post("/actions/{action}", h.Action)
		r.Get("/export.csv", h.ExportCSV)
	})

	return router
}
