// Package astro implements the two-body Earth–Sun model: Earth's rotation and
// orbit as functions of simulation time, the ecliptic/equatorial/horizontal
// transforms, the illustrative star catalog and day-drift bookkeeping.
//
// Every angle crossing the package boundary is in radians. Simulation time is
// a float64 count of seconds since the model epoch.
package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// Model constants.
const (
	SiderealDaySeconds = 86164 // 23h 56m 4s
	SolarDaySeconds    = 86400
	TropicalYearDays   = 365.2422

	// DriftPerDaySeconds is how much longer a solar day is than a sidereal day.
	DriftPerDaySeconds = SolarDaySeconds - SiderealDaySeconds

	// ObliquityRadians is Earth's axial tilt relative to the ecliptic.
	ObliquityRadians = 23.44 * math.Pi / 180

	// TropicalYearSeconds is the orbital period in seconds.
	TropicalYearSeconds = TropicalYearDays * SolarDaySeconds

	twoPi = 2 * math.Pi
)

// NormalizeAngle wraps a into [0, 2π).
//
// math.Mod keeps the sign of the dividend, so negative inputs are shifted up
// by a full turn. A tiny negative remainder can round to exactly 2π after the
// shift; that case folds back to 0.
func NormalizeAngle(a float64) float64 {
	n := unit.PMod(a, twoPi)
	if n >= twoPi {
		return 0
	}
	return n
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return unit.AngleFromDeg(deg).Rad()
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return unit.Angle(rad).Deg()
}

// AngleDiff returns the signed shortest rotation from a to b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(b - a)
	if d > math.Pi {
		d -= twoPi
	}
	return d
}

// Observer is a ground location. Values are snapshots: change the location by
// replacing the whole value.
type Observer struct {
	Latitude  float64 // radians, north positive, [-π/2, π/2]
	Longitude float64 // radians, east positive, (-π, π]
	Name      string
}

// NewObserver builds an Observer, clamping latitude to [-π/2, π/2] and
// wrapping longitude into (-π, π].
func NewObserver(name string, lat, lon float64) Observer {
	return Observer{
		Latitude:  clamp(lat, -math.Pi/2, math.Pi/2),
		Longitude: wrapLongitude(lon),
		Name:      name,
	}
}

// ObserverFromDegrees is NewObserver for inputs in degrees.
func ObserverFromDegrees(name string, latDeg, lonDeg float64) Observer {
	return NewObserver(name, Deg2Rad(latDeg), Deg2Rad(lonDeg))
}

// LatDeg returns the latitude in degrees.
func (o Observer) LatDeg() float64 { return Rad2Deg(o.Latitude) }

// LonDeg returns the longitude in degrees.
func (o Observer) LonDeg() float64 { return Rad2Deg(o.Longitude) }

func wrapLongitude(lon float64) float64 {
	l := NormalizeAngle(lon)
	if l > math.Pi {
		l -= twoPi
	}
	return l
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
