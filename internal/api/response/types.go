package response

import (
	"time"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/stats"
)

// Cell represents one tile in API responses
type Cell struct {
	Shape       string `json:"shape"`
	Orientation string `json:"orientation"`
	Connected   bool   `json:"connected"`
	PowerSource bool   `json:"power_source"`
}

// CellFromModel converts a model.Cell
func CellFromModel(c model.Cell) Cell {
	return Cell{
		Shape:       c.Shape.String(),
		Orientation: c.Orientation.String(),
		Connected:   c.Connected,
		PowerSource: c.PowerSource,
	}
}

// Position represents a board position
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameState is the full state of one game session
type GameState struct {
	ID           string    `json:"id"`
	State        string    `json:"state"`
	Size         int       `json:"size"`
	TurnCount    int       `json:"turn_count"`
	PerfectCount int       `json:"perfect_count"`
	Elapsed      int       `json:"elapsed"`
	Solved       bool      `json:"solved"`
	LastTurned   *Position `json:"last_turned"`
	Cells        [][]Cell  `json:"cells"` // Row-major: cells[y][x]
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameStateFromModel converts a model.Session
func GameStateFromModel(s *model.Session) GameState {
	b := s.Board
	cells := make([][]Cell, len(b.Cells))
	for y, row := range b.Cells {
		cells[y] = make([]Cell, len(row))
		for x, c := range row {
			cells[y][x] = CellFromModel(c)
		}
	}

	var lastTurned *Position
	if b.LastTurned != model.NoPosition {
		lastTurned = &Position{X: b.LastTurned.X, Y: b.LastTurned.Y}
	}

	return GameState{
		ID:           string(s.ID),
		State:        string(s.State),
		Size:         b.Size,
		TurnCount:    b.TurnCount,
		PerfectCount: b.PerfectCount,
		Elapsed:      b.Elapsed,
		Solved:       b.AllConnected(),
		LastTurned:   lastTurned,
		Cells:        cells,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SizeStats is one row of the statistics table
type SizeStats struct {
	Size           int      `json:"size"`
	Plays          int      `json:"plays"`
	Wins           int      `json:"wins"`
	Perfects       int      `json:"perfects"`
	AverageTime    *float64 `json:"average_time"`
	WinPercent     int      `json:"win_percent"`
	PerfectPercent int      `json:"perfect_percent"`
}

// Statistics is the statistics table with overall percentages
type Statistics struct {
	Sizes               []SizeStats `json:"sizes"`
	TotalWinPercent     int         `json:"total_win_percent"`
	TotalPerfectPercent int         `json:"total_perfect_percent"`
}

// StatisticsFromSummary converts a stats.Summary
func StatisticsFromSummary(s *stats.Summary) Statistics {
	sizes := make([]SizeStats, 0, len(s.Sizes))
	for _, row := range s.Sizes {
		sizes = append(sizes, SizeStats{
			Size:           row.Size,
			Plays:          row.Stats.Plays,
			Wins:           row.Stats.Wins,
			Perfects:       row.Stats.Perfects,
			AverageTime:    row.Stats.AverageTime,
			WinPercent:     row.WinPercent,
			PerfectPercent: row.PerfectPercent,
		})
	}
	return Statistics{
		Sizes:               sizes,
		TotalWinPercent:     s.TotalWinPercent,
		TotalPerfectPercent: s.TotalPerfectPercent,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
