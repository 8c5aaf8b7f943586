package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mcoot/pipegame/internal/dependencies/clock"
	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/storage"
)

type storedSession struct {
	data      []byte
	version   int64
	expiresAt time.Time // zero when sessions never expire
}

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	cfg       Config
	clock     clock.Clock
	lastSweep time.Time

	sessions   map[model.SessionID]storedSession
	statistics model.Statistics
}

// New creates a new in-memory storage instance that keeps sessions forever
func New() *Storage {
	return NewWithConfig(Config{}, clock.New())
}

// NewWithConfig creates an in-memory storage instance that expires sessions
// cfg.SessionTTL after their last save, as measured by clk
func NewWithConfig(cfg Config, clk clock.Clock) *Storage {
	return &Storage{
		cfg:        cfg,
		clock:      clk,
		lastSweep:  clk.Now(),
		sessions:   make(map[model.SessionID]storedSession),
		statistics: model.Statistics{},
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

// Sessions are stored serialized so callers never share a board with the store.
func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	expected := session.Version
	next := *session
	next.Version = expected + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweepLocked(now)

	current, ok := s.liveLocked(session.ID, now)
	switch {
	case !ok && expected != 0:
		return model.ErrSessionNotFound
	case ok && current.version != expected:
		return model.ErrSessionConflict
	}

	entry := storedSession{data: data, version: next.Version}
	if s.cfg.SessionTTL > 0 {
		entry.expiresAt = now.Add(s.cfg.SessionTTL)
	}
	s.sessions[session.ID] = entry
	session.Version = next.Version
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	entry, ok := s.liveLocked(id, s.clock.Now())
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// liveLocked returns the stored session for id unless it has expired
func (s *Storage) liveLocked(id model.SessionID, now time.Time) (storedSession, bool) {
	entry, ok := s.sessions[id]
	if !ok || entry.expired(now) {
		return storedSession{}, false
	}
	return entry, true
}

// sweepLocked drops expired sessions, at most once per sweep interval
func (s *Storage) sweepLocked(now time.Time) {
	if s.cfg.SessionTTL <= 0 || now.Sub(s.lastSweep) < s.cfg.SweepInterval {
		return
	}
	s.lastSweep = now
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}
}

func (e storedSession) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Statistics operations

func (s *Storage) LoadStatistics(ctx context.Context) (model.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(model.Statistics, len(s.statistics))
	copy(result, s.statistics)
	return result, nil
}

func (s *Storage) ReplaceStatistics(ctx context.Context, stats model.Statistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statistics = stats.Sorted()
	return nil
}
