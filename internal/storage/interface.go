package storage

import (
	"context"

	"github.com/mcoot/pipegame/internal/model"
)

// SessionStore persists in-progress and finished game sessions.
// Sessions left untouched for a store-defined retention window may disappear.
//
// SaveSession stores session only if the stored copy is still at
// session.Version, or is absent when session.Version is zero, and advances
// session.Version on success. A stale save fails with model.ErrSessionConflict.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
}

// StatisticsStore persists the aggregate statistics collection.
// ReplaceStatistics overwrites whatever was stored before.
type StatisticsStore interface {
	LoadStatistics(ctx context.Context) (model.Statistics, error)
	ReplaceStatistics(ctx context.Context, stats model.Statistics) error
}

// Storage defines the interface for data persistence
type Storage interface {
	SessionStore
	StatisticsStore
}
