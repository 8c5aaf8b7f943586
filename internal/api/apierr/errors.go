package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pipegame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidSize       = "INVALID_SIZE"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeGameAbandoned     = "GAME_ABANDONED"
	CodeGameBusy          = "GAME_BUSY"
	CodeStatisticsCorrupt = "STATISTICS_CORRUPT"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidSize):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSize, err.Error()}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameAbandoned):
		return &httpError{http.StatusConflict, APIError{CodeGameAbandoned, "Game has been abandoned"}}
	case errors.Is(err, model.ErrSessionConflict):
		return &httpError{http.StatusConflict, APIError{CodeGameBusy, "Game was changed by another request, try again"}}
	case errors.Is(err, model.ErrMalformedStatisticsLine):
		return &httpError{http.StatusInternalServerError, APIError{CodeStatisticsCorrupt, "Stored statistics could not be read"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
