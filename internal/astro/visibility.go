package astro

import "math"

// Window is a rise-transit-set cycle in simulation seconds.
type Window struct {
	Rise        float64 // valid when HasRise
	Transit     float64 // time of maximum altitude
	Set         float64 // valid when HasSet
	MaxAltitude float64 // radians
	HasRise     bool
	HasSet      bool
	AlwaysUp    bool // body never sets in the sampled span
	NeverUp     bool // body never rises in the sampled span
}

// windowStep is the sampling interval used by the window search.
const windowStep = 600.0

// SunAltitude returns the model Sun's altitude for an observer at t.
func SunAltitude(t float64, obs Observer, ref Reference) float64 {
	sun := SunEquatorial(ref.EarthStateAt(t))
	lst := CalculateLST(ref.GMSTAt(t), obs.Longitude)
	return EquatorialToHorizontal(sun.RA, sun.Dec, obs.Latitude, lst).Altitude
}

// StarAltitude returns a star's altitude for an observer at t.
func StarAltitude(s Star, t float64, obs Observer, ref Reference) float64 {
	lst := CalculateLST(ref.GMSTAt(t), obs.Longitude)
	return EquatorialToHorizontal(s.RA, s.Dec, obs.Latitude, lst).Altitude
}

// SunWindow finds sunrise, solar transit and sunset in the solar day that
// starts at start.
func SunWindow(obs Observer, ref Reference, start float64) Window {
	return findWindow(start, SolarDaySeconds, func(t float64) float64 {
		return SunAltitude(t, obs, ref)
	})
}

// StarWindow finds a star's rise, transit and set in the sidereal day that
// starts at start.
func StarWindow(s Star, obs Observer, ref Reference, start float64) Window {
	return findWindow(start, SiderealDaySeconds, func(t float64) float64 {
		return StarAltitude(s, t, obs, ref)
	})
}

type altSample struct {
	t   float64
	alt float64
}

// findWindow samples altitude over [start, start+span] and locates the first
// horizon crossings by linear interpolation.
func findWindow(start, span float64, altitude func(float64) float64) Window {
	n := int(math.Ceil(span/windowStep)) + 1
	samples := make([]altSample, n)

	minAlt, maxAlt := math.Inf(1), math.Inf(-1)
	maxIdx := 0
	for i := range samples {
		t := start + math.Min(float64(i)*windowStep, span)
		a := altitude(t)
		samples[i] = altSample{t: t, alt: a}
		if a < minAlt {
			minAlt = a
		}
		if a > maxAlt {
			maxAlt = a
			maxIdx = i
		}
	}

	transit, peak := refineMax(samples, maxIdx)

	if minAlt > 0 {
		return Window{Transit: transit, MaxAltitude: peak, AlwaysUp: true}
	}
	if maxAlt <= 0 {
		return Window{Transit: transit, MaxAltitude: peak, NeverUp: true}
	}

	w := Window{Transit: transit, MaxAltitude: peak}
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if !w.HasRise && prev.alt <= 0 && curr.alt > 0 {
			w.Rise = interpolateCrossing(prev.t, curr.t, prev.alt, curr.alt, 0)
			w.HasRise = true
		}
		if !w.HasSet && prev.alt > 0 && curr.alt <= 0 {
			w.Set = interpolateCrossing(prev.t, curr.t, prev.alt, curr.alt, 0)
			w.HasSet = true
		}
	}
	return w
}

// refineMax fits a parabola through the peak sample and its neighbours.
func refineMax(samples []altSample, i int) (float64, float64) {
	if i == 0 || i == len(samples)-1 {
		return samples[i].t, samples[i].alt
	}
	y0, y1, y2 := samples[i-1].alt, samples[i].alt, samples[i+1].alt
	denom := y0 - 2*y1 + y2
	if math.Abs(denom) < 1e-12 {
		return samples[i].t, y1
	}

	// Vertex offset in units of the sample step, in [-1, 1].
	x := clamp(0.5*(y0-y2)/denom, -1, 1)
	step := samples[i+1].t - samples[i].t
	peak := y1 - 0.25*(y0-y2)*x
	return samples[i].t + x*step, peak
}

// interpolateCrossing finds the time where altitude crosses threshold.
func interpolateCrossing(t1, t2, a1, a2, threshold float64) float64 {
	if math.Abs(a2-a1) < 1e-9 {
		return t1
	}

	fraction := clamp((threshold-a1)/(a2-a1), 0, 1)
	return t1 + (t2-t1)*fraction
}
