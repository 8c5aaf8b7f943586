package stats

import (
	"context"
	"sync"
	"testing"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/storage/memory"
	"github.com/mcoot/pipegame/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func solvedBoard(size, turns, perfect, elapsed int) *model.Board {
	b := &model.Board{Size: size, TurnCount: turns, PerfectCount: perfect, Elapsed: elapsed}
	b.Cells = [][]model.Cell{{{Connected: true, PowerSource: true}}}
	return b
}

func unsolvedBoard(size int) *model.Board {
	b := &model.Board{Size: size}
	b.Cells = [][]model.Cell{{{Connected: true, PowerSource: true}, {Connected: false}}}
	return b
}

func (s *ServiceSuite) TestLoadEmpty() {
	st, err := s.service.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(st)
}

func (s *ServiceSuite) TestSaveMergesWithExisting() {
	s.Require().NoError(s.storage.ReplaceStatistics(s.ctx, model.Statistics{
		{Size: 3, Stats: model.StatSet{Plays: 7, Wins: 4, Perfects: 1, AverageTime: model.FloatPtr(10)}},
	}))

	err := s.service.Save(s.ctx, model.Statistics{
		{Size: 3, Stats: model.StatSet{Plays: 1, Wins: 1, Perfects: 1, AverageTime: model.FloatPtr(20)}},
		{Size: 5, Stats: model.StatSet{Plays: 1}},
	})
	s.Require().NoError(err)

	st, err := s.service.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(st, 2)
	s.Equal(3, st[0].Size)
	s.Equal(8, st[0].Stats.Plays)
	s.Equal(5, st[0].Stats.Wins)
	s.Equal(2, st[0].Stats.Perfects)
	s.InDelta(12.0, *st[0].Stats.AverageTime, 1e-9)
	s.Equal(5, st[1].Size)
	s.Nil(st[1].Stats.AverageTime)
}

func (s *ServiceSuite) TestRecordSessionWin() {
	s.Require().NoError(s.service.RecordSession(s.ctx, solvedBoard(4, 3, 5, 42)))

	st, err := s.service.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(4)
	s.Require().True(ok)
	s.Equal(model.StatSet{Plays: 1, Wins: 1, Perfects: 1, AverageTime: model.FloatPtr(42)}, set)
}

func (s *ServiceSuite) TestRecordSessionImperfectWin() {
	s.Require().NoError(s.service.RecordSession(s.ctx, solvedBoard(4, 6, 5, 42)))

	st, _ := s.service.Load(s.ctx)
	set, _ := st.Find(4)
	s.Equal(1, set.Wins)
	s.Equal(0, set.Perfects)
}

func (s *ServiceSuite) TestRecordSessionLoss() {
	s.Require().NoError(s.service.RecordSession(s.ctx, unsolvedBoard(6)))

	st, _ := s.service.Load(s.ctx)
	set, ok := st.Find(6)
	s.Require().True(ok)
	s.Equal(model.StatSet{Plays: 1}, set)
}

func (s *ServiceSuite) TestRecordSessionAccumulates() {
	s.Require().NoError(s.service.RecordSession(s.ctx, solvedBoard(4, 3, 5, 10)))
	s.Require().NoError(s.service.RecordSession(s.ctx, solvedBoard(4, 3, 5, 20)))
	s.Require().NoError(s.service.RecordSession(s.ctx, unsolvedBoard(4)))

	st, _ := s.service.Load(s.ctx)
	set, _ := st.Find(4)
	s.Equal(3, set.Plays)
	s.Equal(2, set.Wins)
	s.InDelta(15.0, *set.AverageTime, 1e-9)
}

func (s *ServiceSuite) TestSummaryEmpty() {
	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)
	s.Empty(summary.Sizes)
	s.Equal(100, summary.TotalWinPercent)
	s.Equal(100, summary.TotalPerfectPercent)
}

func (s *ServiceSuite) TestSummaryRows() {
	s.Require().NoError(s.storage.ReplaceStatistics(s.ctx, model.Statistics{
		{Size: 6, Stats: model.StatSet{Plays: 1}},
		{Size: 3, Stats: model.StatSet{Plays: 7, Wins: 4, Perfects: 1, AverageTime: model.FloatPtr(10)}},
	}))

	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summary.Sizes, 2)

	s.Equal(3, summary.Sizes[0].Size)
	s.Equal(57, summary.Sizes[0].WinPercent)
	s.Equal(14, summary.Sizes[0].PerfectPercent)
	s.Equal(6, summary.Sizes[1].Size)
	s.Equal(0, summary.Sizes[1].WinPercent)

	// 4 wins over 8 plays
	s.Equal(50, summary.TotalWinPercent)
	s.Equal(12, summary.TotalPerfectPercent)
}

func (s *ServiceSuite) TestConcurrentRecordsAreAllKept() {
	const plays = 40

	var wg sync.WaitGroup
	for i := 0; i < plays; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.service.RecordSession(s.ctx, solvedBoard(4, 1, 1, 10)))
		}()
	}
	wg.Wait()

	st, err := s.service.Load(s.ctx)
	s.Require().NoError(err)
	set, ok := st.Find(4)
	s.Require().True(ok)
	s.Equal(plays, set.Plays)
	s.Equal(plays, set.Wins)
}
