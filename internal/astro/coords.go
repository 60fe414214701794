package astro

import (
	"math"
	"strings"
)

// Equatorial holds celestial coordinates on the equatorial frame.
type Equatorial struct {
	RA  float64 // Right Ascension in radians [0, 2π)
	Dec float64 // Declination in radians [-π/2, π/2]
}

// Horizontal holds observer-relative coordinates.
type Horizontal struct {
	Altitude float64 // radians, 0 = horizon, π/2 = zenith
	Azimuth  float64 // radians [0, 2π), 0 = North, π/2 = East
}

// AboveHorizon reports whether the position is above the horizon.
func (h Horizontal) AboveHorizon() bool {
	return h.Altitude > 0
}

// EclipticToEquatorial converts ecliptic longitude/latitude to RA/Dec.
//
// Callers pass lat = 0 for bodies on the ecliptic. The tan(lat) term loses
// accuracy as lat approaches ±π/2 and is infinite there; non-finite results
// are returned as-is.
func EclipticToEquatorial(lon, lat float64) Equatorial {
	sinE, cosE := math.Sincos(ObliquityRadians)
	sinL, cosL := math.Sincos(lon)

	ra := math.Atan2(sinL*cosE-math.Tan(lat)*sinE, cosL)
	dec := math.Asin(math.Sin(lat)*cosE + math.Cos(lat)*sinE*sinL)

	return Equatorial{RA: NormalizeAngle(ra), Dec: dec}
}

// CalculateGMST returns the Greenwich mean sidereal angle at simulation time
// t. initialGMST fixes the phase at t = 0; see Reference.
func CalculateGMST(t, initialGMST float64) float64 {
	return NormalizeAngle(initialGMST + twoPi*t/SiderealDaySeconds)
}

// CalculateLST returns the local sidereal angle for an east-positive
// longitude.
func CalculateLST(gmst, lon float64) float64 {
	return NormalizeAngle(gmst + lon)
}

// HourAngle returns how far west of the meridian a body with the given RA
// sits, normalized to [0, 2π).
func HourAngle(lst, ra float64) float64 {
	return NormalizeAngle(lst - ra)
}

// EquatorialToHorizontal converts RA/Dec to altitude/azimuth for an observer
// at latitude lat when the local sidereal angle is lst.
//
// Azimuth follows the usual convention: 0 = North, π/2 = East. At the poles
// the azimuth denominator vanishes and only the altitude is meaningful.
func EquatorialToHorizontal(ra, dec, lat, lst float64) Horizontal {
	h := lst - ra

	sinLat, cosLat := math.Sincos(lat)
	sinDec, cosDec := math.Sincos(dec)
	sinH, cosH := math.Sincos(h)

	alt := math.Asin(sinLat*sinDec + cosLat*cosDec*cosH)

	// atan2 handles the quadrant; the east/west split falls out of sin(H).
	y := -sinH * cosDec
	x := sinDec*cosLat - cosDec*sinLat*cosH
	az := math.Atan2(y, x)

	return Horizontal{Altitude: alt, Azimuth: NormalizeAngle(az)}
}

// Convention names the phase relationship between the sidereal clock and the
// Sun at t = 0.
type Convention int

const (
	// NoonZero puts the Sun on the Greenwich meridian at t = 0 (GMST offset 0).
	NoonZero Convention = iota
	// MidnightZero puts the Sun on the Greenwich anti-meridian at t = 0
	// (GMST offset π), so t counts from local midnight at longitude 0.
	MidnightZero
)

// String returns the convention name as used on the command line.
func (c Convention) String() string {
	switch c {
	case NoonZero:
		return "noon"
	case MidnightZero:
		return "midnight"
	default:
		return "unknown"
	}
}

// ParseConvention parses "noon" or "midnight".
func ParseConvention(s string) (Convention, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noon":
		return NoonZero, true
	case "midnight":
		return MidnightZero, true
	}
	return NoonZero, false
}

// Reference carries the offsets applied at t = 0.
type Reference struct {
	GMST   float64 // initial Greenwich sidereal angle, radians
	SunLon float64 // initial Sun ecliptic longitude, radians
}

// Reference returns the offsets for the convention.
func (c Convention) Reference() Reference {
	if c == MidnightZero {
		return Reference{GMST: math.Pi}
	}
	return Reference{}
}

// GMSTAt is CalculateGMST with the reference's phase.
func (r Reference) GMSTAt(t float64) float64 {
	return CalculateGMST(t, r.GMST)
}
