package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	sharedmw "github.com/mcoot/pipegame/internal/middleware"
	"github.com/mcoot/pipegame/internal/services/game"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/web/handler"
	"github.com/mcoot/pipegame/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	StatsService   *stats.Service
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the HTML routes on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.StatsService, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Logger)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Recovery(cfg.Logger))
	pages.Use(sharedmw.Logging(cfg.Logger))
	pages.Use(middleware.Flash())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Game routes
	pages.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/games/{id}/rotate", gameHandler.Rotate).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/tick", gameHandler.Tick).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/abandon", gameHandler.Abandon).Methods(http.MethodPost)
}
