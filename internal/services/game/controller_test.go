package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mcoot/pipegame/internal/dependencies/mocks"
	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/maze"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/storage/memory"
	"github.com/mcoot/pipegame/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	stats      *stats.Service
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.stats = stats.New(s.storage, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, maze.New(s.random, logger), s.stats, s.clock, logger)
	s.ctx = context.Background()
}

// newGame creates a 2x2 game whose solved layout is
//
//	(0,0) elbow E (source)   (1,0) elbow S
//	(0,1) end N              (1,1) end N
//
// with only the source scrambled one quarter turn out of place.
func (s *ControllerSuite) newGame() *model.Session {
	s.random.QueueIntn(0, 0, 0, 0) // edge weights
	s.random.QueueIntn(0)          // power source
	s.random.QueueIntn(1, 0, 0, 0) // scramble
	session, err := s.controller.NewGame(s.ctx, 2)
	s.Require().NoError(err)
	return session
}

func (s *ControllerSuite) solve(id model.SessionID) *model.Session {
	var session *model.Session
	var err error
	for i := 0; i < 3; i++ {
		session, err = s.controller.Rotate(s.ctx, id, model.Position{X: 0, Y: 0})
		s.Require().NoError(err)
	}
	return session
}

// NewGame tests

func (s *ControllerSuite) TestNewGameSucceeds() {
	session := s.newGame()

	s.NotEmpty(session.ID)
	s.Equal(model.SessionStatePlaying, session.State)
	s.Equal(2, session.Board.Size)
	s.Equal(1, session.Board.PerfectCount)
	s.Equal(0, session.Board.TurnCount)
	s.Equal(2, session.Board.ConnectedCount())
	s.False(session.Recorded)
	s.Equal(s.clock.Now(), session.CreatedAt)
}

func (s *ControllerSuite) TestNewGameIsPersisted() {
	session := s.newGame()

	retrieved, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.Board.Cells, retrieved.Board.Cells)
}

func (s *ControllerSuite) TestNewGameAssignsDistinctIDs() {
	first := s.newGame()
	s.random.Reset()
	second := s.newGame()

	s.NotEqual(first.ID, second.ID)
	for _, id := range []model.SessionID{first.ID, second.ID} {
		_, err := s.controller.GetGame(s.ctx, id)
		s.NoError(err)
	}
}

func (s *ControllerSuite) TestNewGameRejectsInvalidSize() {
	_, err := s.controller.NewGame(s.ctx, 0)
	s.ErrorIs(err, model.ErrInvalidSize)

	_, err = s.controller.NewGame(s.ctx, model.MaxBoardSize+1)
	s.ErrorIs(err, model.ErrInvalidSize)
}

func (s *ControllerSuite) TestNewGameOfSizeOneIsSolvedAndRecorded() {
	session, err := s.controller.NewGame(s.ctx, 1)
	s.Require().NoError(err)

	s.Equal(model.SessionStateSolved, session.State)
	s.True(session.Recorded)

	st, err := s.stats.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(1)
	s.Require().True(ok)
	s.Equal(1, set.Plays)
	s.Equal(1, set.Wins)
	s.Equal(1, set.Perfects)
}

// GetGame tests

func (s *ControllerSuite) TestGetGameFailsForUnknownID() {
	_, err := s.controller.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Rotate tests

func (s *ControllerSuite) TestRotateTurnsTile() {
	session := s.newGame()

	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
	s.Require().NoError(err)

	s.Equal(model.West, updated.Board.Cells[0][0].Orientation)
	s.Equal(1, updated.Board.TurnCount)
	s.Equal(model.Position{X: 0, Y: 0}, updated.Board.LastTurned)
	s.Equal(model.SessionStatePlaying, updated.State)
}

func (s *ControllerSuite) TestRotateSameTileCountsOneTurn() {
	session := s.newGame()

	updated := s.solve(session.ID)

	s.Equal(1, updated.Board.TurnCount)
}

func (s *ControllerSuite) TestRotateDifferentTilesCountsEachTurn() {
	session := s.newGame()

	_, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 1, Y: 1})
	s.Require().NoError(err)
	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 1})
	s.Require().NoError(err)
	updated, err = s.controller.Rotate(s.ctx, session.ID, model.Position{X: 1, Y: 1})
	s.Require().NoError(err)

	s.Equal(3, updated.Board.TurnCount)
}

func (s *ControllerSuite) TestRotateSolvingRecordsWin() {
	session := s.newGame()
	_, err := s.controller.Tick(s.ctx, session.ID)
	s.Require().NoError(err)
	_, err = s.controller.Tick(s.ctx, session.ID)
	s.Require().NoError(err)

	updated := s.solve(session.ID)

	s.Equal(model.SessionStateSolved, updated.State)
	s.True(updated.Board.AllConnected())
	s.True(updated.Recorded)

	st, err := s.stats.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(2)
	s.Require().True(ok)
	s.Equal(1, set.Plays)
	s.Equal(1, set.Wins)
	s.Equal(1, set.Perfects)
	s.Require().NotNil(set.AverageTime)
	s.InDelta(2.0, *set.AverageTime, 1e-9)
}

func (s *ControllerSuite) TestRotateAfterSolvedIsNoop() {
	session := s.newGame()
	s.solve(session.ID)

	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 1, Y: 1})
	s.Require().NoError(err)

	s.Equal(model.SessionStateSolved, updated.State)
	s.Equal(1, updated.Board.TurnCount)
	s.Equal(model.North, updated.Board.Cells[1][1].Orientation)

	st, _ := s.stats.Load(s.ctx)
	set, _ := st.Find(2)
	s.Equal(1, set.Plays)
}

func (s *ControllerSuite) TestRotateOutOfRangeIsNoop() {
	session := s.newGame()

	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 5, Y: -1})
	s.Require().NoError(err)

	s.Equal(0, updated.Board.TurnCount)
	s.Equal(model.NoPosition, updated.Board.LastTurned)
	s.Equal(session.Board.Cells, updated.Board.Cells)
}

func (s *ControllerSuite) TestRotateAbandonedGameFails() {
	session := s.newGame()
	_, err := s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)

	_, err = s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrGameAbandoned)
}

func (s *ControllerSuite) TestRotateUnknownGameFails() {
	_, err := s.controller.Rotate(s.ctx, "missing", model.Position{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestRotateUpdatesTimestamp() {
	session := s.newGame()
	s.clock.Advance(time.Minute)

	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
	s.Require().NoError(err)

	s.Equal(session.CreatedAt.Add(time.Minute), updated.UpdatedAt)
}

// Tick tests

func (s *ControllerSuite) TestTickAdvancesElapsed() {
	session := s.newGame()

	updated, err := s.controller.Tick(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(1, updated.Board.Elapsed)

	retrieved, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(1, retrieved.Board.Elapsed)
}

func (s *ControllerSuite) TestTickStopsOnceSolved() {
	session := s.newGame()
	s.solve(session.ID)

	updated, err := s.controller.Tick(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(0, updated.Board.Elapsed)
}

func (s *ControllerSuite) TestTickIgnoredWhenAbandoned() {
	session := s.newGame()
	_, err := s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)

	updated, err := s.controller.Tick(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(0, updated.Board.Elapsed)
}

// Abandon tests

func (s *ControllerSuite) TestAbandonRecordsLoss() {
	session := s.newGame()

	updated, err := s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateAbandoned, updated.State)
	s.True(updated.Recorded)

	st, err := s.stats.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(2)
	s.Require().True(ok)
	s.Equal(1, set.Plays)
	s.Equal(0, set.Wins)
	s.Equal(0, set.Perfects)
	s.Nil(set.AverageTime)
}

func (s *ControllerSuite) TestAbandonTwiceRecordsOnce() {
	session := s.newGame()

	_, err := s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)
	_, err = s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)

	st, _ := s.stats.Load(s.ctx)
	set, _ := st.Find(2)
	s.Equal(1, set.Plays)
}

func (s *ControllerSuite) TestAbandonSolvedGameKeepsWin() {
	session := s.newGame()
	s.solve(session.ID)

	updated, err := s.controller.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateSolved, updated.State)

	st, _ := s.stats.Load(s.ctx)
	set, _ := st.Find(2)
	s.Equal(1, set.Plays)
	s.Equal(1, set.Wins)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentTicksAndRotatesAreAllApplied() {
	session := s.newGame()
	// Alternating between the two end tiles never touches the source, so the board stays unsolved
	cells := []model.Position{{X: 1, Y: 0}, {X: 0, Y: 1}}
	const n = 100

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := s.controller.Tick(s.ctx, session.ID)
			s.NoError(err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := s.controller.Rotate(s.ctx, session.ID, cells[i%2])
			s.NoError(err)
		}
	}()
	wg.Wait()

	final, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatePlaying, final.State)
	s.Equal(n, final.Board.Elapsed)
	s.Equal(n, final.Board.TurnCount)
	s.Empty(s.controller.locks.locks)
}

func (s *ControllerSuite) TestConcurrentAbandonsRecordOnce() {
	session := s.newGame()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.controller.Abandon(s.ctx, session.ID)
			s.NoError(err)
		}()
	}
	wg.Wait()

	st, err := s.stats.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(2)
	s.Require().True(ok)
	s.Equal(1, set.Plays)
}

func (s *ControllerSuite) TestConcurrentSolveAndAbandonRecordOnce() {
	session := s.newGame()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			_, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
			if err != nil {
				s.ErrorIs(err, model.ErrGameAbandoned)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		_, err := s.controller.Abandon(s.ctx, session.ID)
		s.NoError(err)
	}()
	wg.Wait()

	final, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.True(final.IsOver())
	s.True(final.Recorded)

	st, _ := s.stats.Load(s.ctx)
	set, _ := st.Find(2)
	s.Equal(1, set.Plays)
	if final.State == model.SessionStateSolved {
		s.Equal(1, set.Wins)
	} else {
		s.Equal(0, set.Wins)
	}
}

// racingStore lets another writer save a tick just before each of the next
// few saves, the way a second server sharing the store would
type racingStore struct {
	*memory.Storage
	interleaves int
}

func (r *racingStore) SaveSession(ctx context.Context, session *model.Session) error {
	if r.interleaves > 0 && session.Version > 0 {
		r.interleaves--
		other, err := r.Storage.GetSession(ctx, session.ID)
		if err != nil {
			return err
		}
		other.Board.Tick()
		if err := r.Storage.SaveSession(ctx, other); err != nil {
			return err
		}
	}
	return r.Storage.SaveSession(ctx, session)
}

func (s *ControllerSuite) useRacingStore() *racingStore {
	store := &racingStore{Storage: s.storage}
	logger := testutil.NopLogger()
	s.controller = NewController(store, maze.New(s.random, logger), s.stats, s.clock, logger)
	return store
}

func (s *ControllerSuite) TestRotateRetriesAfterLosingSave() {
	store := s.useRacingStore()
	session := s.newGame()
	store.interleaves = 1

	updated, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
	s.Require().NoError(err)
	s.Equal(1, updated.Board.TurnCount)
	s.Equal(1, updated.Board.Elapsed)

	retrieved, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(1, retrieved.Board.TurnCount)
	s.Equal(1, retrieved.Board.Elapsed)
}

func (s *ControllerSuite) TestRotateGivesUpAfterRepeatedConflicts() {
	store := s.useRacingStore()
	session := s.newGame()
	store.interleaves = maxSaveAttempts

	_, err := s.controller.Rotate(s.ctx, session.ID, model.Position{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrSessionConflict)

	retrieved, err := s.controller.GetGame(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(0, retrieved.Board.TurnCount)
	s.Equal(maxSaveAttempts, retrieved.Board.Elapsed)
}
