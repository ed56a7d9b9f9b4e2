// Package geom holds the point type and the small pure helpers every other
// package routes its geometry through.
package geom

import "math"

const (
	// DefaultPressure is used when the input device reports no pressure.
	DefaultPressure = 0.5

	MinBrushSize = 1.0
	MaxBrushSize = 64.0
)

// Point is a canvas-local sample. Pressure is in [0,1].
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Pt returns a point carrying the default pressure.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y, Pressure: DefaultPressure}
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the angle of the vector a→b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Lerp interpolates position and pressure between a and b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X:        a.X + (b.X-a.X)*t,
		Y:        a.Y + (b.Y-a.Y)*t,
		Pressure: a.Pressure + (b.Pressure-a.Pressure)*t,
	}
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampBrushSize bounds a brush size to [MinBrushSize, MaxBrushSize].
func ClampBrushSize(v float64) float64 {
	return Clamp(v, MinBrushSize, MaxBrushSize)
}

// ClampPressure maps device pressure to [0,1], substituting
// DefaultPressure for missing (zero, negative or NaN) readings.
func ClampPressure(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return DefaultPressure
	}
	return Clamp(p, 0, 1)
}

// PerpDistance returns the distance from p to the infinite line through a
// and b. When a and b coincide it falls back to the distance from p to a.
func PerpDistance(p, a, b Point) float64 {
	l := Dist(a, b)
	if l == 0 {
		return Dist(p, a)
	}
	cross := (b.X-a.X)*(a.Y-p.Y) - (a.X-p.X)*(b.Y-a.Y)
	return math.Abs(cross) / l
}
