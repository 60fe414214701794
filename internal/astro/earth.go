package astro

import "math"

// EarthState is Earth's configuration at one simulation instant. It is
// recomputed from t on every query and never integrated incrementally.
type EarthState struct {
	SiderealAngle  float64 // rotation relative to the stars, [0, 2π)
	OrbitAngle     float64 // heliocentric position on the orbit, [0, 2π)
	SunEclipticLon float64 // apparent Sun longitude seen from Earth, [0, 2π)
}

// CalculateEarthState returns Earth's state at simulation time t seconds.
// initialSunLon shifts the Sun's ecliptic longitude so t = 0 can be aligned
// with an arbitrary solar configuration.
func CalculateEarthState(t, initialSunLon float64) EarthState {
	orbit := NormalizeAngle(twoPi * t / TropicalYearSeconds)
	return EarthState{
		SiderealAngle:  NormalizeAngle(twoPi * t / SiderealDaySeconds),
		OrbitAngle:     orbit,
		SunEclipticLon: NormalizeAngle(orbit + initialSunLon),
	}
}

// EarthStateAt is CalculateEarthState using the reference's Sun offset.
func (r Reference) EarthStateAt(t float64) EarthState {
	return CalculateEarthState(t, r.SunLon)
}

// The orbital view uses screen coordinates (y down): Earth sits on its orbit
// at angle SunEclipticLon and both orbit and spin advance clockwise.

// EarthRotationAngle is the angle the Earth disk is drawn rotated by.
func EarthRotationAngle(s EarthState) float64 {
	return NormalizeAngle(s.SiderealAngle + math.Pi/2)
}

// SunDirection is the screen angle from Earth's center toward the Sun.
func SunDirection(s EarthState) float64 {
	return NormalizeAngle(s.SunEclipticLon + math.Pi)
}

// MarkerDirection is the screen angle from Earth's center toward the
// observer's meridian at longitude lon, with gmst0 the reference phase.
func MarkerDirection(s EarthState, lon, gmst0 float64) float64 {
	return NormalizeAngle(EarthRotationAngle(s) + math.Pi/2 + lon + gmst0)
}

// SolarHourAngle is the angle between the observer's meridian and the Sun as
// drawn in the orbital view. It is 0 at local noon and repeats every solar
// day.
func SolarHourAngle(s EarthState, lon, gmst0 float64) float64 {
	return NormalizeAngle(MarkerDirection(s, lon, gmst0) - SunDirection(s))
}
