package rotation

import (
	"fmt"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/connectivity"
)

// Turn applies one clockwise quarter turn to a cell. It does not count the
// turn or touch connectivity; scrambling uses it directly.
func Turn(c *model.Cell) {
	switch c.Shape {
	case model.ShapeCross:
		// all four sides are open, nothing changes
	case model.ShapeBar:
		// bars only have two visible states, so the stored orientation
		// toggles between north and east
		c.Orientation = model.CanonicalBar(c.Orientation.Next())
	case model.ShapeEnd, model.ShapeElbow, model.ShapeTee:
		c.Orientation = c.Orientation.Next()
	default:
		panic(fmt.Sprintf("unknown shape %d", int(c.Shape)))
	}
}

// RotateOnce turns the tile at pos one quarter clockwise and recomputes
// connectivity. The turn counter goes up unless the same tile was also the
// last one turned, so spinning one tile repeatedly costs a single turn.
// pos must name a cell on the board.
func RotateOnce(b *model.Board, pos model.Position) {
	cell := b.Cell(pos)
	if cell == nil {
		return
	}
	previous := b.LastTurned

	Turn(cell)

	if pos != previous {
		b.TurnCount++
	}
	b.LastTurned = pos

	connectivity.Update(b)
}

// Rotate is the player-facing move. It leaves the board unchanged if the
// puzzle is already solved or pos is off the board.
func Rotate(b *model.Board, pos model.Position) *model.Board {
	if b.AllConnected() || !b.IsValidPosition(pos) {
		return b
	}
	RotateOnce(b, pos)
	return b
}
