package sky

import (
	"math"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// Orbit is the top-down Earth–Sun geometry. The Sun sits at the origin, the
// orbit has radius 1 and screen y points down, so orbit and spin both run
// clockwise on screen.
type Orbit struct {
	Earth Point // Earth's center on the orbit

	Rotation  float64 // Earth disk rotation, radians
	Marker    float64 // direction of the observer's meridian from Earth's center
	SunDir    float64 // direction from Earth toward the Sun
	HourAngle float64 // Marker − SunDir: 0 at local noon

	// Direction of the star that was on the meridian at t = 0. Stars are
	// infinitely far, so it is the same from every point on the orbit and the
	// marker returns to it once per sidereal day.
	StarDir float64
}

// ComputeOrbit builds the orbital view for t.
func ComputeOrbit(t float64, obs astro.Observer, ref astro.Reference) Orbit {
	s := ref.EarthStateAt(t)
	return Orbit{
		Earth:     Point{X: math.Cos(s.SunEclipticLon), Y: math.Sin(s.SunEclipticLon)},
		Rotation:  astro.EarthRotationAngle(s),
		Marker:    astro.MarkerDirection(s, obs.Longitude, ref.GMST),
		SunDir:    astro.SunDirection(s),
		HourAngle: astro.SolarHourAngle(s, obs.Longitude, ref.GMST),
		StarDir:   astro.MarkerDirection(astro.EarthState{}, obs.Longitude, ref.GMST),
	}
}

// Daytime reports whether it is daytime at the marker: the meridian faces
// within a quarter turn of the Sun.
func (o Orbit) Daytime() bool {
	return math.Abs(astro.AngleDiff(o.SunDir, o.Marker)) < math.Pi/2
}

// MarkerPoint returns the meridian marker on an Earth disk of the given
// radius, in orbit coordinates.
func (o Orbit) MarkerPoint(earthRadius float64) Point {
	return Point{
		X: o.Earth.X + earthRadius*math.Cos(o.Marker),
		Y: o.Earth.Y + earthRadius*math.Sin(o.Marker),
	}
}

// TerminatorAngle is the direction of the night side's center, opposite the
// Sun.
func (o Orbit) TerminatorAngle() float64 {
	return astro.NormalizeAngle(o.SunDir + math.Pi)
}
