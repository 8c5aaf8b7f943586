package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/web/middleware"
	"github.com/mcoot/pipegame/internal/web/templates/layout"
	"github.com/mcoot/pipegame/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	statsService *stats.Service
	logger       *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(statsService *stats.Service, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	flash := middleware.GetFlash(r.Context())

	summary, err := h.statsService.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to load statistics", slog.String("error", err.Error()))
		render(w, r, h.logger, http.StatusInternalServerError, pages.Error(pages.ErrorData{
			PageData: layout.PageData{Title: "Error", Flash: flash},
			Heading:  "Statistics unavailable",
			Message:  "The statistics could not be loaded.",
		}))
		return
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: flash,
		},
		Stats: summary,
	}
	render(w, r, h.logger, http.StatusOK, pages.Home(data))
}
