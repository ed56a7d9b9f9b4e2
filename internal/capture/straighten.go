package capture

import (
	"math"
	"time"

	"InkBoard/internal/geom"
)

// Straighten configures hold-to-straighten. Distances are in canvas pixels.
type Straighten struct {
	Enabled       bool
	HoldDelay     time.Duration
	StillEpsilon  float64
	MinChord      float64
	MaxDeviation  float64
	MeanDeviation float64
	// AngleStep quantizes a straightened line's angle, in degrees. Zero
	// disables angle snapping.
	AngleStep float64
}

// DefaultStraighten returns the enabled gesture with standard tolerances and
// no angle snapping.
func DefaultStraighten() Straighten {
	return Straighten{
		Enabled:       true,
		HoldDelay:     350 * time.Millisecond,
		StillEpsilon:  2,
		MinChord:      24,
		MaxDeviation:  3.5,
		MeanDeviation: 2.45,
	}
}

// FitsLine reports whether pts is close enough to the chord between its
// endpoints to be replaced by it.
func FitsLine(pts []geom.Point, cfg Straighten) bool {
	if len(pts) < 2 {
		return false
	}
	a, b := pts[0], pts[len(pts)-1]
	if geom.Dist(a, b) < cfg.MinChord {
		return false
	}
	inner := pts[1 : len(pts)-1]
	if len(inner) == 0 {
		return true
	}
	var maxDev, sum float64
	for _, p := range inner {
		d := geom.PerpDistance(p, a, b)
		maxDev = math.Max(maxDev, d)
		sum += d
	}
	return maxDev <= cfg.MaxDeviation && sum/float64(len(inner)) <= cfg.MeanDeviation
}

// SnapAngle rotates end around start to the nearest multiple of stepDeg,
// keeping the chord length.
func SnapAngle(start, end geom.Point, stepDeg float64) geom.Point {
	if stepDeg <= 0 || math.IsNaN(stepDeg) {
		return end
	}
	step := stepDeg * math.Pi / 180
	a := math.Round(geom.Angle(start, end)/step) * step
	l := geom.Dist(start, end)
	return geom.Point{
		X:        start.X + l*math.Cos(a),
		Y:        start.Y + l*math.Sin(a),
		Pressure: end.Pressure,
	}
}
