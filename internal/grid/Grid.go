package grid

import (
	"fmt"
	"strings"
)

// Cell is a coordinate on the board. X grows east, Y grows south.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the cell one move away in direction d.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Add offsets c by the increment inc.
func (c Cell) Add(inc Cell) Cell {
	return Cell{X: c.X + inc.X, Y: c.Y + inc.Y}
}

type Direction int

const (
	None Direction = iota
	North
	South
	East
	West
)

// Directions lists the four moves in their canonical order.
var Directions = [4]Direction{North, South, East, West}

func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	}
	return "NONE"
}

// ParseDirection accepts the names produced by Direction.String, in any case.
func ParseDirection(name string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return None, fmt.Errorf("unknown direction %q", name)
}

// DirectionTo returns the direction of an adjacent cell, or None when to is
// not a 4-neighbour of from.
func DirectionTo(from, to Cell) Direction {
	for _, d := range Directions {
		if from.Step(d) == to {
			return d
		}
	}
	return None
}

// Preference is a fixed exploration order over the four directions.
type Preference [4]Direction

func TaxiCab(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CellSet is an unordered set of cells.
type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

// Has reports membership; a nil set contains nothing.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Union returns a new set holding the cells of s and other.
func (s CellSet) Union(other CellSet) CellSet {
	out := make(CellSet, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}
