package model

import "fmt"

// Position identifies a cell on the board
type Position struct {
	X int `json:"x"` // 0-indexed from left
	Y int `json:"y"` // 0-indexed from top
}

// NoPosition is the sentinel for "no cell", used before any tile is turned
var NoPosition = Position{X: -1, Y: -1}

// String returns the position as "(x,y)"
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the neighbouring position one step in the given direction
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionTo returns the compass direction from p to an orthogonally
// adjacent position q. ok is false if q is not adjacent to p.
func (p Position) DirectionTo(q Position) (d Direction, ok bool) {
	for _, d := range Directions {
		if p.Step(d) == q {
			return d, true
		}
	}
	return North, false
}

// Direction is a compass orientation. Clockwise order is North, East, South, West.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all directions in clockwise order starting at North
var Directions = [4]Direction{North, East, South, West}

// Next returns the direction a quarter turn clockwise
func (d Direction) Next() Direction {
	return (d + 1) % 4
}

// Prev returns the direction a quarter turn anticlockwise
func (d Direction) Prev() Direction {
	return (d + 3) % 4
}

// Opposite returns the direction facing the other way
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the grid offset of one step in this direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		panic(fmt.Sprintf("unknown direction %d", int(d)))
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts a direction name back into a Direction
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}
