package model

import "fmt"

// Supported board dimensions
const (
	MinBoardSize = 1
	MaxBoardSize = 15
)

// Cell is one tile of the board
type Cell struct {
	Position    Position  `json:"position"`
	Shape       Shape     `json:"shape"`
	Orientation Direction `json:"orientation"`
	Connected   bool      `json:"connected"`
	PowerSource bool      `json:"power_source,omitempty"`
}

// Openings returns the sides of the cell that currently carry an open pipe end
func (c *Cell) Openings() []Direction {
	return Openings(c.Shape, c.Orientation)
}

// Opens reports whether the cell currently has an open pipe end facing side
func (c *Cell) Opens(side Direction) bool {
	return Opens(c.Shape, c.Orientation, side)
}

// Board is a square grid of tiles played by one session
type Board struct {
	Size         int      `json:"size"`
	Cells        [][]Cell `json:"cells"` // Row-major: Cells[y][x]
	LastTurned   Position `json:"last_turned"`
	TurnCount    int      `json:"turn_count"`
	PerfectCount int      `json:"perfect_count"`
	Elapsed      int      `json:"elapsed"` // clock ticks while unsolved
}

// ValidateSize returns ErrInvalidSize if size is outside the supported range
func ValidateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidSize, size, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// NewBoard lays out cells on a size x size board. Every position must be
// covered exactly once and exactly one cell must be the power source.
func NewBoard(size int, cells []Cell) (*Board, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("board of size %d needs %d cells, got %d", size, size*size, len(cells))
	}

	grid := make([][]Cell, size)
	for y := range grid {
		grid[y] = make([]Cell, size)
	}
	placed := make([][]bool, size)
	for y := range placed {
		placed[y] = make([]bool, size)
	}

	sources := 0
	for _, c := range cells {
		p := c.Position
		if p.X < 0 || p.X >= size || p.Y < 0 || p.Y >= size {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, p)
		}
		if placed[p.Y][p.X] {
			return nil, fmt.Errorf("duplicate cell at %s", p)
		}
		placed[p.Y][p.X] = true
		if c.PowerSource {
			sources++
		}
		grid[p.Y][p.X] = c
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrPowerSourceCount, sources)
	}

	return &Board{
		Size:       size,
		Cells:      grid,
		LastTurned: NoPosition,
	}, nil
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Size && pos.Y >= 0 && pos.Y < b.Size
}

// Cell returns the cell at pos, or nil if pos is off the board
func (b *Board) Cell(pos Position) *Cell {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return &b.Cells[pos.Y][pos.X]
}

// Each calls fn for every cell in row-major order
func (b *Board) Each(fn func(c *Cell)) {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			fn(&b.Cells[y][x])
		}
	}
}

// PowerSource returns the power source cell, or nil if the board has none
func (b *Board) PowerSource() *Cell {
	var source *Cell
	b.Each(func(c *Cell) {
		if source == nil && c.PowerSource {
			source = c
		}
	})
	return source
}

// AllConnected reports whether every tile is powered. This is the win condition.
func (b *Board) AllConnected() bool {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			if !b.Cells[y][x].Connected {
				return false
			}
		}
	}
	return true
}

// ConnectedCount returns the number of powered tiles
func (b *Board) ConnectedCount() int {
	count := 0
	b.Each(func(c *Cell) {
		if c.Connected {
			count++
		}
	})
	return count
}

// Tick advances the elapsed-time counter while the board is unsolved
func (b *Board) Tick() {
	if !b.AllConnected() {
		b.Elapsed++
	}
}

// IsPerfect reports whether the player has used no more turns than the
// generated minimum
func (b *Board) IsPerfect() bool {
	return b.TurnCount <= b.PerfectCount
}
