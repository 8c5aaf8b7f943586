// Package file keeps aggregate statistics in a flat text file, one line per
// board size: "<size>:<plays>,<wins>,<perfects>,<averageTime|#f>".
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/storage"
)

// StatisticsStore reads and writes the statistics file at a fixed path
type StatisticsStore struct {
	path string
}

// NewStatisticsStore creates a store backed by the file at path
func NewStatisticsStore(path string) *StatisticsStore {
	return &StatisticsStore{path: path}
}

// Ensure StatisticsStore implements the interface
var _ storage.StatisticsStore = (*StatisticsStore)(nil)

// Path returns the file location
func (s *StatisticsStore) Path() string {
	return s.path
}

// LoadStatistics reads the file. A missing file is an empty collection.
func (s *StatisticsStore) LoadStatistics(ctx context.Context) (model.Statistics, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Statistics{}, nil
		}
		return nil, err
	}

	stats, err := model.DecodeStatistics(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return stats, nil
}

// ReplaceStatistics overwrites the file with stats. The new contents are
// written to a temporary file in the same directory and renamed into place,
// so readers never see a half-written file.
func (s *StatisticsStore) ReplaceStatistics(ctx context.Context, stats model.Statistics) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".stats-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.WriteString(model.EncodeStatistics(stats)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}
