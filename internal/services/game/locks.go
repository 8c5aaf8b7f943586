package game

import (
	"sync"

	"github.com/mcoot/pipegame/internal/model"
)

// sessionLocks hands out one mutex per session ID. Entries are dropped when
// their last holder or waiter unlocks, so finished sessions cost nothing.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[model.SessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[model.SessionID]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock
func (l *sessionLocks) lock(id model.SessionID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
