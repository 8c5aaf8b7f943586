// Package connectivity works out which tiles are powered.
package connectivity

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/mcoot/pipegame/internal/model"
)

// Update recomputes the Connected flag of every cell on the board.
//
// The walk is breadth-first from the power source. A neighbour is reached only
// when both tiles have open pipe ends facing each other. Each cell is queued at
// most once, so loops formed by tees and crosses are safe.
func Update(b *model.Board) {
	b.Each(func(c *model.Cell) {
		c.Connected = false
	})

	source := b.PowerSource()
	if source == nil {
		return
	}

	visited := mapset.New[model.Position]()
	visited.Put(source.Position)
	queue := []model.Position{source.Position}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]

		b.Cell(pos).Connected = true

		for _, next := range Neighbours(b, pos) {
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
}

// Neighbours returns the positions whose tiles share a matched pipe end with
// the tile at pos
func Neighbours(b *model.Board, pos model.Position) []model.Position {
	cell := b.Cell(pos)
	if cell == nil {
		return nil
	}

	var result []model.Position
	for _, side := range cell.Openings() {
		next := pos.Step(side)
		other := b.Cell(next)
		if other == nil || !other.Opens(side.Opposite()) {
			continue
		}
		result = append(result, next)
	}
	return result
}
