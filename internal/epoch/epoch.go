// Package epoch phases the simulation's t = 0 to a real calendar instant so
// the simplified model starts out matching the real sky.
package epoch

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// Align returns the reference whose GMST and Sun longitude at t = 0 equal the
// real values at instant.
func Align(instant time.Time) astro.Reference {
	jd := julian.TimeToJD(instant.UTC())

	gmst := sidereal.Mean(jd).Angle().Rad()

	// Recover ecliptic longitude from the apparent position so it agrees with
	// the model's own ecliptic-to-equatorial conversion.
	ra, dec := solar.ApparentEquatorial(jd)
	eps := astro.ObliquityRadians
	raRad, decRad := ra.Rad(), dec.Rad()
	lon := math.Atan2(math.Sin(raRad)*math.Cos(eps)+math.Tan(decRad)*math.Sin(eps), math.Cos(raRad))

	return astro.Reference{
		GMST:   astro.NormalizeAngle(gmst),
		SunLon: astro.NormalizeAngle(lon),
	}
}

// Epoch ties simulation seconds to wall-clock instants.
type Epoch struct {
	Instant   time.Time
	Reference astro.Reference
}

// New aligns t = 0 with instant.
func New(instant time.Time) Epoch {
	return Epoch{Instant: instant.UTC(), Reference: Align(instant)}
}

// At returns the calendar instant for simulation time t seconds.
func (e Epoch) At(t float64) time.Time {
	return e.Instant.Add(time.Duration(t * float64(time.Second)))
}

// Name labels the epoch for display.
func (e Epoch) Name() string {
	return "epoch " + e.Instant.Format(time.RFC3339)
}

// Parse accepts RFC 3339 or a bare date (midnight UTC), and "now".
func Parse(s string, now time.Time) (time.Time, error) {
	if s == "now" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}
