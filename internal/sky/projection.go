package sky

import (
	"math"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// Point is a position on a unit canvas centered on the origin, y down.
type Point struct {
	X, Y float64
}

// Radius returns the distance from the origin.
func (p Point) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}

// Project maps a horizontal position onto the dome as seen from below:
// zenith at the center, horizon at radius 1, north up and east right.
// Radius falls linearly with altitude; below-horizon positions land outside
// the unit circle.
func Project(h astro.Horizontal) Point {
	r := 1 - h.Altitude/(math.Pi/2)
	angle := h.Azimuth - math.Pi/2
	return Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// AltitudeRing returns the dome radius of an altitude circle.
func AltitudeRing(alt float64) float64 {
	return 1 - alt/(math.Pi/2)
}

// Grid lines drawn when the grid option is on.
var (
	GridAltitudes = []float64{astro.Deg2Rad(30), astro.Deg2Rad(60)}
	GridAzimuths  = []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4, math.Pi, 5 * math.Pi / 4, 3 * math.Pi / 2, 7 * math.Pi / 4}
)

// Cardinal is a compass label on the horizon ring.
type Cardinal struct {
	Label string
	Point Point
}

// Cardinals returns N, E, S and W on the horizon ring.
func Cardinals() []Cardinal {
	labels := []string{"N", "E", "S", "W"}
	out := make([]Cardinal, len(labels))
	for i, l := range labels {
		az := float64(i) * math.Pi / 2
		out[i] = Cardinal{Label: l, Point: Project(astro.Horizontal{Altitude: 0, Azimuth: az})}
	}
	return out
}
