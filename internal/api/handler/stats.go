package handler

import (
	"net/http"

	"github.com/mcoot/pipegame/internal/api/response"
	"github.com/mcoot/pipegame/internal/services/stats"
)

// StatsHandler serves the statistics table
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsService.Summary(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatisticsFromSummary(summary))
}
