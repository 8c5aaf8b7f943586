// Package maze builds solvable boards. A random spanning tree over the grid
// decides which neighbouring tiles are joined by pipe; each tile's shape follows
// from how many tree edges touch it, and the finished layout is then scrambled.
package maze

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/pipegame/internal/dependencies/random"
	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/connectivity"
	"github.com/mcoot/pipegame/internal/services/rotation"
)

// Edge joins two grid-adjacent positions. Only used during generation.
type Edge struct {
	Weight int
	From   model.Position
	To     model.Position
}

// Generator creates scrambled, solvable boards
type Generator struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new Generator
func New(random random.Random, logger *slog.Logger) *Generator {
	return &Generator{
		random: random,
		logger: logger,
	}
}

// Generate builds a scrambled board of the given size
func (g *Generator) Generate(size int) (*model.Board, error) {
	if err := model.ValidateSize(size); err != nil {
		return nil, err
	}

	edges := AssignEdges(size, g.random)
	tree := Kruskal(edges, size)

	cells, err := EdgesToCells(tree, size, g.random)
	if err != nil {
		return nil, err
	}

	board, err := model.NewBoard(size, cells)
	if err != nil {
		return nil, fmt.Errorf("generated board is invalid: %w", err)
	}

	Scramble(board, g.random)

	g.logger.Debug("board generated",
		slog.Int("size", size),
		slog.Int("perfect_count", board.PerfectCount),
		slog.Int("connected", board.ConnectedCount()),
	)

	return board, nil
}

// AssignEdges creates one edge per pair of horizontally or vertically
// adjacent positions, each with a random weight in [0, size*size).
// An n x n grid yields 2n(n-1) edges.
func AssignEdges(size int, rnd random.Random) []Edge {
	edges := make([]Edge, 0, 2*size*(size-1))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			from := model.Position{X: x, Y: y}
			if x+1 < size {
				edges = append(edges, Edge{
					Weight: rnd.Intn(size * size),
					From:   from,
					To:     model.Position{X: x + 1, Y: y},
				})
			}
			if y+1 < size {
				edges = append(edges, Edge{
					Weight: rnd.Intn(size * size),
					From:   from,
					To:     model.Position{X: x, Y: y + 1},
				})
			}
		}
	}
	return edges
}

// Kruskal returns a minimum spanning tree of the size x size grid using the
// given edges. Edges are considered in ascending weight order, ties keeping
// their input order; an edge is kept only if it joins two separate trees.
// The result has size*size-1 edges whenever the input spans the grid.
func Kruskal(edges []Edge, size int) []Edge {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})

	parent := make(map[model.Position]model.Position, size*size)
	rank := make(map[model.Position]int, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := model.Position{X: x, Y: y}
			parent[p] = p
		}
	}

	find := func(p model.Position) model.Position {
		for parent[p] != p {
			parent[p] = parent[parent[p]]
			p = parent[p]
		}
		return p
	}

	union := func(a, b model.Position) {
		rootA, rootB := find(a), find(b)
		switch {
		case rank[rootA] < rank[rootB]:
			parent[rootA] = rootB
		case rank[rootA] > rank[rootB]:
			parent[rootB] = rootA
		default:
			parent[rootB] = rootA
			rank[rootA]++
		}
	}

	want := size*size - 1
	tree := make([]Edge, 0, want)
	for _, e := range sorted {
		if len(tree) == want {
			break
		}
		if find(e.From) == find(e.To) {
			continue
		}
		union(e.From, e.To)
		tree = append(tree, e)
	}
	return tree
}

// EdgesToCells turns a spanning tree into tiles in their solved orientation.
// One position, drawn uniformly, becomes the power source.
func EdgesToCells(tree []Edge, size int, rnd random.Random) ([]model.Cell, error) {
	open := make(map[model.Position][]model.Direction, size*size)
	for _, e := range tree {
		d, ok := e.From.DirectionTo(e.To)
		if !ok {
			return nil, fmt.Errorf("edge %s-%s does not join adjacent cells", e.From, e.To)
		}
		open[e.From] = append(open[e.From], d)
		open[e.To] = append(open[e.To], d.Opposite())
	}

	source := rnd.Intn(size * size)

	cells := make([]model.Cell, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pos := model.Position{X: x, Y: y}
			sides := open[pos]
			sort.Slice(sides, func(i, j int) bool { return sides[i] < sides[j] })

			shape, orientation, err := model.ShapeForOpenings(sides)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", pos, err)
			}
			cells = append(cells, model.Cell{
				Position:    pos,
				Shape:       shape,
				Orientation: orientation,
				PowerSource: len(cells) == source,
			})
		}
	}
	return cells, nil
}

// Scramble turns every tile a random 0-3 quarter turns and sets the perfect
// count to the number of tiles left out of place. Play counters are reset and
// connectivity is recomputed.
func Scramble(b *model.Board, rnd random.Random) *model.Board {
	b.Each(func(c *model.Cell) {
		solved := c.Orientation
		for k := rnd.Intn(4); k > 0; k-- {
			rotation.Turn(c)
		}
		if c.Orientation != solved {
			b.PerfectCount++
		}
	})

	b.TurnCount = 0
	b.LastTurned = model.NoPosition
	connectivity.Update(b)

	return b
}
