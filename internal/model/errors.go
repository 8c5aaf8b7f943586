package model

import "errors"

// Common errors used across the application
var (
	// Board errors
	ErrInvalidSize      = errors.New("invalid board size")
	ErrInvalidPosition  = errors.New("invalid board position")
	ErrPowerSourceCount = errors.New("board must have exactly one power source")

	// Session errors
	ErrSessionNotFound = errors.New("game session not found")
	ErrGameAbandoned   = errors.New("game has been abandoned")
	ErrSessionConflict = errors.New("game session was changed by another request")

	// Statistics errors
	ErrMalformedStatisticsLine = errors.New("malformed statistics line")
)
