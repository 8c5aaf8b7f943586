package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// SessionState represents the current phase of a session
type SessionState string

const (
	SessionStatePlaying   SessionState = "playing"   // Tiles still being turned
	SessionStateSolved    SessionState = "solved"    // Every tile is connected
	SessionStateAbandoned SessionState = "abandoned" // Player gave up
)

// Session is one player's game on one board
type Session struct {
	ID    SessionID
	State SessionState
	Board *Board

	// Recorded is set once the outcome has been folded into statistics
	Recorded bool

	// Version counts saves. A save only succeeds against the version it was loaded at.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOver returns true if the session can no longer change
func (s *Session) IsOver() bool {
	return s.State != SessionStatePlaying
}
