package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/game"
	"github.com/mcoot/pipegame/internal/web/middleware"
	"github.com/mcoot/pipegame/internal/web/templates/components"
	"github.com/mcoot/pipegame/internal/web/templates/layout"
	"github.com/mcoot/pipegame/internal/web/templates/pages"
)

// GameHandler handles game pages and actions
type GameHandler struct {
	gameController *game.Controller
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		logger:         logger,
	}
}

// Create starts a new game from the home page form
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.FormValue("size"))
	if err != nil {
		middleware.SetFlash(w, "error", "Choose a board size")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, err := h.gameController.NewGame(r.Context(), size)
	if err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, gamePath(session.ID), http.StatusSeeOther)
}

// View renders the game page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.GetGame(r.Context(), sessionID(r))
	if err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.GameData{
		PageData: layout.PageData{
			Title: "Game",
			Flash: middleware.GetFlash(r.Context()),
		},
		Session: session,
	}
	render(w, r, h.logger, http.StatusOK, pages.Game(data))
}

// Rotate turns one tile. htmx requests get the updated game panel back;
// plain form posts are redirected to the game page.
func (h *GameHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	x, errX := strconv.Atoi(r.FormValue("x"))
	y, errY := strconv.Atoi(r.FormValue("y"))
	if errX != nil || errY != nil {
		h.fail(w, r, id, http.StatusBadRequest, "Invalid tile position")
		return
	}

	session, err := h.gameController.Rotate(r.Context(), id, model.Position{X: x, Y: y})
	if err != nil {
		h.fail(w, r, id, statusFor(err), flashMessage(err))
		return
	}

	if isHTMX(r) {
		render(w, r, h.logger, http.StatusOK, components.GamePanel(session))
		return
	}
	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

// Tick advances the game clock and returns the status line
func (h *GameHandler) Tick(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.Tick(r.Context(), sessionID(r))
	if err != nil {
		http.Error(w, flashMessage(err), statusFor(err))
		return
	}
	render(w, r, h.logger, http.StatusOK, components.Status(session))
}

// Abandon gives up on the game and shows the final board
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	session, err := h.gameController.Abandon(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if session.State == model.SessionStateAbandoned {
		middleware.SetFlash(w, "info", "Game abandoned")
	}
	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

// fail reports an action error: htmx gets a bare status and message,
// forms get a flash message on the game page
func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, id model.SessionID, status int, message string) {
	if isHTMX(r) {
		http.Error(w, message, status)
		return
	}
	middleware.SetFlash(w, "error", message)
	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

func gamePath(id model.SessionID) string {
	return "/games/" + string(id)
}

func flashMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return "Game not found"
	case errors.Is(err, model.ErrGameAbandoned):
		return "That game has been abandoned"
	case errors.Is(err, model.ErrSessionConflict):
		return "That game was busy, try again"
	case errors.Is(err, model.ErrInvalidSize):
		return "Board size must be between 1 and 15"
	default:
		return "Something went wrong"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrGameAbandoned), errors.Is(err, model.ErrSessionConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
