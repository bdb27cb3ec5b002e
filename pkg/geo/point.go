// Package geo provides planar geometry in map coordinates (meters, X east,
// Y north) for building footprints.
package geo

import "math"

// Point is a position on the map plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Rotate returns p rotated counterclockwise by angle radians around the origin.
func (p Point) Rotate(angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// RotateAround returns p rotated counterclockwise by angle radians around center.
func (p Point) RotateAround(center Point, angle float64) Point {
	return p.Sub(center).Rotate(angle).Add(center)
}

// HeadingToRadians converts a compass heading in degrees (clockwise from
// north) into a counterclockwise rotation in radians.
func HeadingToRadians(heading float64) float64 {
	return -heading * math.Pi / 180
}
