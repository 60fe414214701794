// Package sky computes what an observer sees at one simulation instant: the
// Sun and catalog stars in horizontal coordinates, their positions on the
// sky dome, and the Earth–Sun geometry of the orbital view.
package sky

import (
	"github.com/litescript/ls-sidereal/internal/astro"
)

// Display thresholds.
var (
	// SunDrawLimit is the lowest Sun altitude still drawn (end of
	// astronomical twilight).
	SunDrawLimit = astro.AstronomicalTwilight

	// GlareRadius hides stars this close to the Sun while it is up.
	GlareRadius = astro.Deg2Rad(10)
)

// Magnitude cut-offs for decorations.
const (
	LabelMagnitude = 1.0 // stars brighter than this get a name label
	GlowMagnitude  = 0.5 // stars brighter than this get a halo
)

// Body is one object placed on the observer's sky.
type Body struct {
	Name       string
	Equatorial astro.Equatorial
	Horizontal astro.Horizontal
	Magnitude  float64
	Size       float64 // display radius in [1, 5]
	Opacity    float64 // [0.3, 1]
	Visible    bool
	Label      bool
	Glow       bool
}

// Point returns the body's dome position.
func (b Body) Point() Point {
	return Project(b.Horizontal)
}

// Frame is the full sky state at one instant. It is a pure function of its
// inputs.
type Frame struct {
	Time     float64
	Observer astro.Observer
	Earth    astro.EarthState
	GMST     float64
	LST      float64

	Sun      Body
	SunDrawn bool // above SunDrawLimit
	Phase    astro.SkyPhase

	Stars []Body // catalog order, including those below the horizon
}

// Compute builds the frame for simulation time t.
func Compute(t float64, obs astro.Observer, ref astro.Reference) Frame {
	earth := ref.EarthStateAt(t)
	gmst := ref.GMSTAt(t)
	lst := astro.CalculateLST(gmst, obs.Longitude)

	sunEq := astro.SunEquatorial(earth)
	sunHz := astro.EquatorialToHorizontal(sunEq.RA, sunEq.Dec, obs.Latitude, lst)
	phase := astro.PhaseForAltitude(sunHz.Altitude)

	f := Frame{
		Time:     t,
		Observer: obs,
		Earth:    earth,
		GMST:     gmst,
		LST:      lst,
		Sun: Body{
			Name:       "Sun",
			Equatorial: sunEq,
			Horizontal: sunHz,
			Magnitude:  -26.7,
			Size:       5,
			Opacity:    1,
			Visible:    sunHz.AboveHorizon(),
			Label:      true,
			Glow:       sunHz.AboveHorizon(),
		},
		SunDrawn: sunHz.Altitude > SunDrawLimit,
		Phase:    phase,
	}

	catalog := astro.Catalog()
	f.Stars = make([]Body, len(catalog))
	for i, s := range catalog {
		hz := astro.EquatorialToHorizontal(s.RA, s.Dec, obs.Latitude, lst)
		visible := starVisible(hz, phase, astro.AngularSeparation(sunEq.RA, sunEq.Dec, s.RA, s.Dec))
		f.Stars[i] = Body{
			Name:       s.Name,
			Equatorial: s.Equatorial(),
			Horizontal: hz,
			Magnitude:  s.Magnitude,
			Size:       astro.StarSize(s.Magnitude),
			Opacity:    astro.StarOpacity(s.Magnitude),
			Visible:    visible,
			Label:      s.Magnitude < LabelMagnitude,
			Glow:       s.Magnitude < GlowMagnitude,
		}
	}
	return f
}

// VisibleStars returns the stars drawn on the dome, in catalog order.
func (f Frame) VisibleStars() []Body {
	var out []Body
	for _, s := range f.Stars {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// starVisible applies the horizon and, in daylight, the solar glare cut.
// sunSep is the star's angular distance from the Sun.
func starVisible(hz astro.Horizontal, phase astro.SkyPhase, sunSep float64) bool {
	if !hz.AboveHorizon() {
		return false
	}
	return phase != astro.PhaseDay || sunSep > GlareRadius
}

// SunPoint returns where the Sun is drawn. Below the horizon it is pinned to
// the rim.
func (f Frame) SunPoint() Point {
	hz := f.Sun.Horizontal
	if hz.Altitude < 0 {
		hz.Altitude = 0
	}
	return Project(hz)
}
