package astro

import "math"

// DriftPerDay is the solar-minus-sidereal day length in seconds.
const DriftPerDay = DriftPerDaySeconds

// SteppedDrift returns the cumulative drift after n whole day-steps. The
// relationship is exact because both day lengths are fixed.
func SteppedDrift(n int64) int64 {
	return n * DriftPerDay
}

// ContinuousDrift returns t − (t/86164)·86400: solar time minus sidereal time
// elapsed when both are driven from the same t. It is negative for t > 0.
func ContinuousDrift(t float64) float64 {
	return t - (t/SiderealDaySeconds)*SolarDaySeconds
}

// DriftMinutes is ContinuousDrift in minutes.
func DriftMinutes(t float64) float64 {
	return ContinuousDrift(t) / 60
}

// DayCounts returns the fractional number of sidereal and solar days elapsed
// at t.
func DayCounts(t float64) (sidereal, solar float64) {
	return t / SiderealDaySeconds, t / SolarDaySeconds
}

// DayDifferenceMinutes is how far the sidereal day count has run ahead of the
// solar day count at t, expressed in minutes of a day.
func DayDifferenceMinutes(t float64) float64 {
	sid, sol := DayCounts(t)
	return (sid - sol) * 1440
}

// TimeToNextSiderealDay returns the seconds until the next sidereal day
// boundary. The result is always in (0, 86164]; exactly on a boundary it is a
// full day.
func TimeToNextSiderealDay(t float64) float64 {
	return timeToNext(t, SiderealDaySeconds)
}

// TimeToNextSolarDay is TimeToNextSiderealDay for solar days.
func TimeToNextSolarDay(t float64) float64 {
	return timeToNext(t, SolarDaySeconds)
}

func timeToNext(t, length float64) float64 {
	d := (math.Floor(t/length)+1)*length - t
	if d <= 0 {
		// t/length rounded up to an integer just below a boundary.
		d += length
	}
	return d
}

// DayCrossings returns how many boundaries of a day of the given length lie
// in (before, after].
func DayCrossings(before, after, length float64) int {
	return int(math.Floor(after/length) - math.Floor(before/length))
}
