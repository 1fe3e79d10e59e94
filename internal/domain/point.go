package domain

import (
	"fmt"
	"math"
)

// Point is an absolute position on the vacuum's map, in millimetres.
// Coordinates are signed integers in a fixed map frame; equality is
// component-wise.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt builds a Point from floating coordinates, truncating toward zero.
// Truncation (not rounding) matches the device's millimetre grid format.
func Pt(x, y float64) Point {
	return Point{X: int(x), Y: int(y)}
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the Euclidean distance to other, in millimetres.
func (p Point) DistanceTo(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Hypot(dx, dy)
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
