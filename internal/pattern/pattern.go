package pattern

import (
	"math"
	"math/rand"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// Default step counts per generator.
const (
	DefaultCircleSteps    = 20
	DefaultEightSteps     = 24
	DefaultLissajousSteps = 32
	DefaultSpinSteps      = 20
)

// Circle returns steps points on a circle of the given radius, starting at
// (cx + r, cy) and proceeding counter-clockwise. The loop is not closed.
func Circle(center domain.Point, radiusMM, steps int) []domain.Point {
	pts := make([]domain.Point, 0, steps)
	r := float64(radiusMM)
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		pts = append(pts, domain.Pt(
			float64(center.X)+r*math.Cos(t),
			float64(center.Y)+r*math.Sin(t),
		))
	}
	return pts
}

// Square returns the four corners of an axis-aligned square of half-extent
// halfMM, clockwise from the bottom-left corner, plus the first corner again
// to close the path. Always exactly 5 points.
func Square(center domain.Point, halfMM int) []domain.Point {
	return []domain.Point{
		center.Add(-halfMM, -halfMM),
		center.Add(halfMM, -halfMM),
		center.Add(halfMM, halfMM),
		center.Add(-halfMM, halfMM),
		center.Add(-halfMM, -halfMM),
	}
}

// FigureEight returns steps points on a lemniscate-like figure-eight of the
// given radius. The parameter runs t = 2π·i/(steps-1), so steps must be at
// least 2; callers validate via Generate.
func FigureEight(center domain.Point, radiusMM, steps int) []domain.Point {
	pts := make([]domain.Point, 0, steps)
	r := float64(radiusMM)
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps-1)
		pts = append(pts, domain.Pt(
			float64(center.X)+r*math.Sin(t),
			float64(center.Y)+r*math.Sin(t)*math.Cos(t),
		))
	}
	return pts
}

// Lissajous returns steps points on a Lissajous curve with amplitudes ax, ay
// and frequencies a, b with phase delta:
//
//	x = cx + ax·sin(a·t + delta)
//	y = cy + ay·sin(b·t)
func Lissajous(center domain.Point, ax, ay, a, b int, delta float64, steps int) []domain.Point {
	pts := make([]domain.Point, 0, steps)
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		pts = append(pts, domain.Pt(
			float64(center.X)+float64(ax)*math.Sin(float64(a)*t+delta),
			float64(center.Y)+float64(ay)*math.Sin(float64(b)*t),
		))
	}
	return pts
}

// SpinCrazy returns steps points of erratic spinning motion: the base angle
// advances at three times normal angular speed with bounded jitter in both
// direction and distance, and each point has a 20% chance of being replaced
// by a fully random position between 0.5 and 1.2 radii from center.
//
// The caller supplies the random source; Generate seeds one with a fixed
// value so repeated calls reproduce identical output. Every point lies
// within twice the requested radius of center.
func SpinCrazy(center domain.Point, radiusMM, steps int, rng *rand.Rand) []domain.Point {
	pts := make([]domain.Point, 0, steps)
	r := float64(radiusMM)
	for i := 0; i < steps; i++ {
		var theta, dist float64
		if rng.Float64() < 0.2 {
			theta = 2 * math.Pi * rng.Float64()
			dist = r * (0.5 + 0.7*rng.Float64())
		} else {
			base := 3 * 2 * math.Pi * float64(i) / float64(steps)
			theta = base + (rng.Float64()*0.8 - 0.4)
			dist = r * (0.9 + 0.3*rng.Float64())
		}
		pts = append(pts, domain.Pt(
			float64(center.X)+dist*math.Cos(theta),
			float64(center.Y)+dist*math.Sin(theta),
		))
	}
	return pts
}
