package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pipegame/internal/api/handler"
	"github.com/mcoot/pipegame/internal/api/middleware"
	"github.com/mcoot/pipegame/internal/api/response"
	"github.com/mcoot/pipegame/internal/services/game"
	"github.com/mcoot/pipegame/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	StatsService   *stats.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under /api/v1 on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Abandon).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/rotate", gameHandler.Rotate).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/tick", gameHandler.Tick).Methods(http.MethodPost)

	// Statistics
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
