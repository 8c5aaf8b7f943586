package response

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/pipegame/internal/model"
)

// JSON writes a JSON response. Game state changes on every tick, so nothing
// the API returns may be cached.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Game writes the state of a session
func Game(w http.ResponseWriter, status int, s *model.Session) {
	JSON(w, status, GameStateFromModel(s))
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
