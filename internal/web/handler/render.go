package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// render writes a component as an HTML response
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// isHTMX reports whether the request was made by htmx
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
