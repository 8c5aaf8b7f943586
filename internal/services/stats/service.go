package stats

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/storage"
)

// Service maintains the persisted per-size statistics
type Service struct {
	// mu serializes load-merge-replace so plays finishing together in this
	// process are all kept
	mu sync.Mutex

	store  storage.StatisticsStore
	logger *slog.Logger
}

// New creates a new statistics Service
func New(store storage.StatisticsStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Load returns the persisted statistics
func (s *Service) Load(ctx context.Context) (model.Statistics, error) {
	return s.store.LoadStatistics(ctx)
}

// Save merges newStats into whatever is currently persisted and writes the
// result back. Saves within one Service never interleave; writers in other
// processes are not coordinated and the last merge wins.
func (s *Service) Save(ctx context.Context, newStats model.Statistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadStatistics(ctx)
	if err != nil {
		s.logger.Error("failed to load statistics", slog.String("error", err.Error()))
		return err
	}

	merged := model.MergeStatistics(existing, newStats)
	if err := s.store.ReplaceStatistics(ctx, merged.Sorted()); err != nil {
		s.logger.Error("failed to save statistics", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// RecordSession adds one finished board to the persisted statistics
func (s *Service) RecordSession(ctx context.Context, board *model.Board) error {
	play := model.RecordSession(nil, board, board.Elapsed)
	if err := s.Save(ctx, play); err != nil {
		return err
	}

	s.logger.Info("statistics recorded",
		slog.Int("size", board.Size),
		slog.Bool("won", board.AllConnected()),
		slog.Int("turns", board.TurnCount),
		slog.Int("perfect_count", board.PerfectCount),
		slog.Int("elapsed", board.Elapsed),
	)
	return nil
}

// SizeSummary is one row of the statistics summary
type SizeSummary struct {
	Size           int
	Stats          model.StatSet
	WinPercent     int
	PerfectPercent int
}

// Summary is the statistics table with overall percentages
type Summary struct {
	Sizes               []SizeSummary
	TotalWinPercent     int
	TotalPerfectPercent int
}

// Summary loads the statistics and derives the percentages shown to players
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	stats, err := s.store.LoadStatistics(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Sizes:               make([]SizeSummary, 0, len(stats)),
		TotalWinPercent:     stats.TotalWinPercent(),
		TotalPerfectPercent: stats.TotalPerfectPercent(),
	}
	for _, entry := range stats.Sorted() {
		summary.Sizes = append(summary.Sizes, SizeSummary{
			Size:           entry.Size,
			Stats:          entry.Stats,
			WinPercent:     entry.Stats.WinPercent(),
			PerfectPercent: entry.Stats.PerfectPercent(),
		})
	}
	return summary, nil
}
