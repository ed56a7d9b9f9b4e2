// Package outline converts a polyline of pressure samples into the closed
// polygon that is filled to render a variable-width stroke.
package outline

import (
	"math"

	"InkBoard/internal/geom"
)

const (
	// spacingFactor scales streamline*size into the minimum distance kept
	// between consecutive centerline samples.
	spacingFactor = 0.25
	dotSegments   = 16
	// minRadius keeps fully thinned samples and single taps visible.
	minRadius = 0.5
)

// Params are the resolved stroke parameters after brush multipliers have
// been applied.
type Params struct {
	Size             float64
	Thinning         float64
	Smoothing        float64
	Streamline       float64
	SimulatePressure bool
}

// Radius returns the half-width of the stroke at a sample with the given
// pressure.
func Radius(p Params, pressure float64) float64 {
	r := p.Size / 2
	if p.SimulatePressure {
		r *= 1 - p.Thinning*(1-geom.Clamp(pressure, 0, 1))
	}
	return r
}

func radiusAt(p Params, pressure float64) float64 {
	return math.Max(Radius(p, pressure), minRadius)
}

// Generate returns the outline ring for pts. The ring is implicitly closed:
// the first vertex is not repeated at the end. No points yields nil; a
// single usable sample yields a small circle.
func Generate(pts []geom.Point, p Params) []geom.Point {
	if len(pts) == 0 || p.Size <= 0 {
		return nil
	}
	samples := Resample(pts, geom.Clamp(p.Streamline, 0, 1)*p.Size*spacingFactor)
	if len(samples) == 1 {
		s := samples[0]
		return Dot(s, radiusAt(p, s.Pressure))
	}

	n := len(samples)
	left := make([]geom.Point, n)
	right := make([]geom.Point, n)
	for i, s := range samples {
		prev := samples[max(i-1, 0)]
		next := samples[min(i+1, n-1)]
		dx, dy := next.X-prev.X, next.Y-prev.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			dx, dy, l = 1, 0, 1
		}
		nx, ny := -dy/l, dx/l
		r := radiusAt(p, s.Pressure)
		left[i] = geom.Point{X: s.X + nx*r, Y: s.Y + ny*r, Pressure: s.Pressure}
		right[i] = geom.Point{X: s.X - nx*r, Y: s.Y - ny*r, Pressure: s.Pressure}
	}
	w := geom.Clamp(p.Smoothing, 0, 1)
	left = smooth(left, w)
	right = smooth(right, w)

	ring := make([]geom.Point, 0, 2*n)
	ring = append(ring, left...)
	for i := n - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	return ring
}

// Resample drops samples closer than spacing to the previously kept one.
// The first and last input samples always survive unless they coincide.
func Resample(pts []geom.Point, spacing float64) []geom.Point {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return []geom.Point{pts[0]}
	}
	kept := []geom.Point{pts[0]}
	for _, pt := range pts[1 : len(pts)-1] {
		d := geom.Dist(kept[len(kept)-1], pt)
		if d > 0 && d >= spacing {
			kept = append(kept, pt)
		}
	}
	last := pts[len(pts)-1]
	d := geom.Dist(kept[len(kept)-1], last)
	switch {
	case len(kept) == 1 && d == 0:
		// every sample coincides with the first
	case len(kept) > 1 && (d == 0 || d < spacing):
		kept[len(kept)-1] = last
	default:
		kept = append(kept, last)
	}
	return kept
}

// smooth blends each interior vertex toward the midpoint of its neighbours
// with weight w. Endpoints are fixed.
func smooth(rail []geom.Point, w float64) []geom.Point {
	if w == 0 || len(rail) < 3 {
		return rail
	}
	out := make([]geom.Point, len(rail))
	out[0] = rail[0]
	out[len(rail)-1] = rail[len(rail)-1]
	for i := 1; i < len(rail)-1; i++ {
		mx := (rail[i-1].X + rail[i+1].X) / 2
		my := (rail[i-1].Y + rail[i+1].Y) / 2
		out[i] = geom.Point{
			X:        rail[i].X*(1-w) + mx*w,
			Y:        rail[i].Y*(1-w) + my*w,
			Pressure: rail[i].Pressure,
		}
	}
	return out
}

// Dot returns a circle ring of radius r around c.
func Dot(c geom.Point, r float64) []geom.Point {
	ring := make([]geom.Point, dotSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / dotSegments
		ring[i] = geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a), Pressure: c.Pressure}
	}
	return ring
}
