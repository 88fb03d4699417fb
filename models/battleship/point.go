package battleship

import "fmt"

type Point struct {
	R int `json:"row"`
	C int `json:"col"`
}

func NewPoint(r, c int) Point {
	return Point{R: r, C: c}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.R, p.C)
}

// Step returns the point n cells away in the given compass direction.
func (p Point) Step(dir Compass, n int) Point {
	switch dir {
	case CompassNorth:
		return Point{R: p.R - n, C: p.C}
	case CompassEast:
		return Point{R: p.R, C: p.C + n}
	case CompassSouth:
		return Point{R: p.R + n, C: p.C}
	case CompassWest:
		return Point{R: p.R, C: p.C - n}
	}
	return p
}

type Direction uint8

const (
	DirectionHorizontal Direction = iota
	DirectionVertical
)

func (d Direction) String() string {
	switch d {
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	}
	return "unknown"
}

func (d Direction) isValid() bool {
	return d == DirectionHorizontal || d == DirectionVertical
}

// offset of the i-th cell of a run starting at anchor.
func (d Direction) cell(anchor Point, i int) Point {
	if d == DirectionHorizontal {
		return Point{R: anchor.R, C: anchor.C + i}
	}
	return Point{R: anchor.R + i, C: anchor.C}
}

// Compass is a direction hint used by strategies when following a run
// of hits.
type Compass uint8

const (
	CompassNone Compass = iota
	CompassNorth
	CompassEast
	CompassSouth
	CompassWest
)

// Compasses lists the four directions in probing order.
var Compasses = [4]Compass{CompassNorth, CompassEast, CompassSouth, CompassWest}

func (c Compass) String() string {
	switch c {
	case CompassNorth:
		return "north"
	case CompassEast:
		return "east"
	case CompassSouth:
		return "south"
	case CompassWest:
		return "west"
	}
	return "none"
}

// CompassBetween returns the direction leading from one point to a
// strictly adjacent one, or CompassNone if they are not neighbours.
func CompassBetween(from, to Point) Compass {
	dr, dc := to.R-from.R, to.C-from.C
	switch {
	case dr == -1 && dc == 0:
		return CompassNorth
	case dr == 0 && dc == 1:
		return CompassEast
	case dr == 1 && dc == 0:
		return CompassSouth
	case dr == 0 && dc == -1:
		return CompassWest
	}
	return CompassNone
}
