package astro

import "math"

// SunEquatorial returns the model Sun's RA/Dec for an Earth state. The Sun
// stays on the ecliptic, so its ecliptic latitude is 0.
func SunEquatorial(s EarthState) Equatorial {
	return EclipticToEquatorial(s.SunEclipticLon, 0)
}

// SunSeparation returns the angular distance between the model Sun and a
// target, in radians.
func SunSeparation(s EarthState, ra, dec float64) float64 {
	sun := SunEquatorial(s)
	return AngularSeparation(sun.RA, sun.Dec, ra, dec)
}

// AngularSeparation returns the great-circle distance between two points on
// the celestial sphere. All angles in radians.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	// Haversine formula
	dRA := ra2 - ra1
	dDec := dec2 - dec1

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	return 2 * math.Asin(math.Sqrt(a))
}

// AstronomicalTwilight is the Sun altitude, in radians, below which the sky
// counts as night.
var AstronomicalTwilight = Deg2Rad(-18)

// SkyPhase classifies the Sun's altitude for sky shading.
type SkyPhase int

const (
	PhaseNight    SkyPhase = iota // Sun below -18°
	PhaseTwilight                 // -18° to 0°
	PhaseDay                      // Sun above the horizon
)

// String returns the phase name.
func (p SkyPhase) String() string {
	switch p {
	case PhaseDay:
		return "day"
	case PhaseTwilight:
		return "twilight"
	default:
		return "night"
	}
}

// PhaseForAltitude returns the sky phase for a Sun altitude in radians.
func PhaseForAltitude(alt float64) SkyPhase {
	switch {
	case alt > 0:
		return PhaseDay
	case alt > AstronomicalTwilight:
		return PhaseTwilight
	default:
		return PhaseNight
	}
}
