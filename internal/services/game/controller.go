package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/pipegame/internal/dependencies/clock"
	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/maze"
	"github.com/mcoot/pipegame/internal/services/rotation"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/storage"
)

// Controller manages the session lifecycle: create, rotate, tick, abandon.
// Changes to one session are applied one at a time.
type Controller struct {
	sessions  storage.SessionStore
	generator *maze.Generator
	stats     *stats.Service
	clock     clock.Clock
	logger    *slog.Logger

	locks *sessionLocks
}

// NewController creates a new game Controller
func NewController(
	sessions storage.SessionStore,
	generator *maze.Generator,
	statsService *stats.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		sessions:  sessions,
		generator: generator,
		stats:     statsService,
		clock:     clock,
		logger:    logger,
		locks:     newSessionLocks(),
	}
}

// NewGame generates a scrambled board of the given size and starts a session on it
func (c *Controller) NewGame(ctx context.Context, size int) (*model.Session, error) {
	board, err := c.generator.Generate(size)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:        model.SessionID(uuid.NewString()),
		State:     model.SessionStatePlaying,
		Board:     board,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Small boards can come out of the scramble already solved
	if board.AllConnected() {
		session.State = model.SessionStateSolved
	}

	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("session_id", string(session.ID)),
		slog.Int("size", size),
		slog.Int("perfect_count", board.PerfectCount),
	)

	if err := c.settle(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetGame retrieves a session by ID
func (c *Controller) GetGame(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.sessions.GetSession(ctx, id)
}

// Rotate turns the tile at pos. Positions off the board and turns on an already
// solved board leave the session unchanged. Solving the board records a win.
func (c *Controller) Rotate(ctx context.Context, id model.SessionID, pos model.Position) (*model.Session, error) {
	return c.update(ctx, id, func(session *model.Session) error {
		switch session.State {
		case model.SessionStateAbandoned:
			return model.ErrGameAbandoned
		case model.SessionStateSolved:
			return errUnchanged
		}
		if !session.Board.IsValidPosition(pos) {
			return errUnchanged
		}

		rotation.Rotate(session.Board, pos)
		if session.Board.AllConnected() {
			session.State = model.SessionStateSolved
		}
		return nil
	})
}

// Tick advances the session's elapsed time by one unit while it is being played
func (c *Controller) Tick(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(session *model.Session) error {
		if session.IsOver() {
			return errUnchanged
		}
		session.Board.Tick()
		return nil
	})
}

// Abandon gives up on a session in play and records it as a loss.
// Sessions that are already over are returned unchanged.
func (c *Controller) Abandon(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(session *model.Session) error {
		if session.IsOver() {
			return errUnchanged
		}
		session.State = model.SessionStateAbandoned
		return nil
	})
}

// errUnchanged makes update return the loaded session without saving it
var errUnchanged = errors.New("session unchanged")

// maxSaveAttempts bounds how often update reloads after losing a save to
// another process sharing the store
const maxSaveAttempts = 3

// update runs change against the stored session while holding that session's
// lock, then saves the result. The caller that moves a session out of play is
// the one that records it.
func (c *Controller) update(ctx context.Context, id model.SessionID, change func(*model.Session) error) (*model.Session, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	for attempt := 1; ; attempt++ {
		session, err := c.sessions.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		wasOver := session.IsOver()

		if err := change(session); err != nil {
			if errors.Is(err, errUnchanged) {
				return session, nil
			}
			return nil, err
		}

		err = c.save(ctx, session)
		if errors.Is(err, model.ErrSessionConflict) && attempt < maxSaveAttempts {
			c.logger.Warn("session changed elsewhere, retrying",
				slog.String("session_id", string(id)),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		if !wasOver {
			if err := c.settle(ctx, session); err != nil {
				return nil, err
			}
		}
		return session, nil
	}
}

// settle folds a session that has just ended into statistics and marks it recorded
func (c *Controller) settle(ctx context.Context, session *model.Session) error {
	if !session.IsOver() || session.Recorded {
		return nil
	}

	if err := c.stats.RecordSession(ctx, session.Board); err != nil {
		c.logger.Error("failed to record session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	session.Recorded = true
	if err := c.save(ctx, session); err != nil {
		return err
	}

	c.logger.Info("game finished",
		slog.String("session_id", string(session.ID)),
		slog.String("state", string(session.State)),
		slog.Int("size", session.Board.Size),
		slog.Int("turns", session.Board.TurnCount),
		slog.Int("perfect_count", session.Board.PerfectCount),
		slog.Int("connected", session.Board.ConnectedCount()),
		slog.Int("elapsed", session.Board.Elapsed),
	)
	return nil
}

func (c *Controller) save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = c.clock.Now()
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		if errors.Is(err, model.ErrSessionConflict) {
			return err
		}
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
