package model

import "fmt"

// Shape is the pipe pattern printed on a tile
type Shape int

const (
	ShapeEnd   Shape = iota // one opening
	ShapeElbow              // two adjacent openings
	ShapeBar                // two opposite openings
	ShapeTee                // three openings
	ShapeCross              // four openings, never rotates
)

func (s Shape) String() string {
	switch s {
	case ShapeEnd:
		return "end"
	case ShapeElbow:
		return "elbow"
	case ShapeBar:
		return "bar"
	case ShapeTee:
		return "tee"
	case ShapeCross:
		return "cross"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ParseShape converts a shape name back into a Shape
func ParseShape(s string) (Shape, error) {
	for _, shape := range []Shape{ShapeEnd, ShapeElbow, ShapeBar, ShapeTee, ShapeCross} {
		if shape.String() == s {
			return shape, nil
		}
	}
	return ShapeEnd, fmt.Errorf("unknown shape %q", s)
}

// Openings returns the sides of a tile that carry an open pipe end when
// the tile has the given shape and orientation.
//
// A tee's orientation names the middle of its three openings, so the closed
// side is the opposite of the orientation. A cross ignores orientation.
func Openings(shape Shape, o Direction) []Direction {
	switch shape {
	case ShapeEnd:
		return []Direction{o}
	case ShapeElbow:
		return []Direction{o, o.Next()}
	case ShapeBar:
		return []Direction{o, o.Opposite()}
	case ShapeTee:
		return []Direction{o.Prev(), o, o.Next()}
	case ShapeCross:
		return []Direction{North, East, South, West}
	default:
		panic(fmt.Sprintf("unknown shape %d", int(shape)))
	}
}

// Opens reports whether a tile with this shape and orientation has an open
// pipe end on the given side
func Opens(shape Shape, o Direction, side Direction) bool {
	for _, d := range Openings(shape, o) {
		if d == side {
			return true
		}
	}
	return false
}

// CanonicalBar folds a bar orientation onto its two visually distinct states:
// north covers north/south and east covers east/west.
func CanonicalBar(o Direction) Direction {
	switch o {
	case North, South:
		return North
	default:
		return East
	}
}

// ShapeForOpenings derives the tile shape and stored orientation for a set
// of open sides, as produced by the spanning tree. An empty set (the lone
// cell of a 1x1 board) becomes a cross so that it never needs turning.
func ShapeForOpenings(open []Direction) (Shape, Direction, error) {
	switch len(open) {
	case 0:
		return ShapeCross, North, nil
	case 1:
		return ShapeEnd, open[0], nil
	case 2:
		a, b := open[0], open[1]
		switch {
		case a.Opposite() == b:
			return ShapeBar, CanonicalBar(a), nil
		case a.Next() == b:
			return ShapeElbow, a, nil
		default:
			return ShapeElbow, b, nil
		}
	case 3:
		present := make(map[Direction]bool, 3)
		for _, d := range open {
			present[d] = true
		}
		for _, d := range Directions {
			if !present[d] {
				return ShapeTee, d.Opposite(), nil
			}
		}
		return ShapeEnd, North, fmt.Errorf("duplicate openings %v", open)
	case 4:
		return ShapeCross, North, nil
	default:
		return ShapeEnd, North, fmt.Errorf("tile cannot have %d openings", len(open))
	}
}

// glyphs maps a bitmask of open sides (north=1, east=2, south=4, west=8)
// to the box-drawing character showing those pipe ends
var glyphs = [16]rune{
	' ', '╵', '╶', '└', '╷', '│', '┌', '├',
	'╴', '┘', '─', '┴', '┐', '┤', '┬', '┼',
}

// Glyph returns the box-drawing character for a tile with this shape and orientation
func Glyph(shape Shape, o Direction) rune {
	mask := 0
	for _, d := range Openings(shape, o) {
		mask |= 1 << d
	}
	return glyphs[mask]
}
