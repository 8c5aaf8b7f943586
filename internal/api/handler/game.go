package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pipegame/internal/api/request"
	"github.com/mcoot/pipegame/internal/api/response"
	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	session, err := h.gameController.NewGame(r.Context(), req.Size)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Game(w, http.StatusCreated, session)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.GetGame(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Game(w, http.StatusOK, session)
}

// Rotate handles POST /api/v1/games/{id}/rotate
func (h *GameHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req request.RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.X == nil || req.Y == nil {
		WriteError(w, NewInvalidRequestError("x and y are required"))
		return
	}

	pos := model.Position{X: *req.X, Y: *req.Y}
	session, err := h.gameController.Rotate(r.Context(), sessionID(r), pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Game(w, http.StatusOK, session)
}

// Tick handles POST /api/v1/games/{id}/tick
func (h *GameHandler) Tick(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.Tick(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Game(w, http.StatusOK, session)
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gameController.Abandon(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}
