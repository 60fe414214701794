package timestep

import (
	"math"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// Continuous is a scalar clock advanced at Speed simulated seconds per real
// second.
type Continuous struct {
	clock
	current float64
}

// NewContinuous returns a paused clock at t = 0 running at 1x.
func NewContinuous() *Continuous {
	return &Continuous{clock: clock{speed: 1}}
}

// Kind implements TimeSource.
func (c *Continuous) Kind() Kind { return KindContinuous }

// EffectiveTime implements TimeSource.
func (c *Continuous) EffectiveTime() float64 { return c.current }

// Playing implements TimeSource.
func (c *Continuous) Playing() bool { return c.playing }

// Play starts playback from now.
func (c *Continuous) Play(now time.Time) { c.play(now) }

// Pause stops playback.
func (c *Continuous) Pause() { c.pause() }

// Reset pauses and returns to t = 0.
func (c *Continuous) Reset() {
	c.pause()
	c.current = 0
}

// Speed implements TimeSource.
func (c *Continuous) Speed() Speed { return c.speed }

// Speeds implements TimeSource.
func (c *Continuous) Speeds() []Speed { return ContinuousSpeeds }

// SetSpeed changes the playback rate. The state is unchanged on error.
func (c *Continuous) SetSpeed(s Speed) error {
	if err := validSpeed(s, ContinuousSpeeds); err != nil {
		return err
	}
	c.speed = s
	return nil
}

// Tick advances the clock and reports day boundaries crossed.
func (c *Continuous) Tick(now time.Time) Crossings {
	if !c.playing {
		return Crossings{}
	}
	before := c.current
	c.current += c.elapsed(now) * float64(c.speed)
	return crossings(before, c.current)
}

// SetTime moves the clock to t, clamped to t >= 0.
func (c *Continuous) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	c.current = t
}

// JumpForward advances the clock by d simulated seconds and reports the
// boundaries crossed.
func (c *Continuous) JumpForward(d float64) Crossings {
	before := c.current
	c.SetTime(c.current + d)
	return crossings(before, c.current)
}

// JumpToNextSiderealDay advances to the next sidereal day boundary.
func (c *Continuous) JumpToNextSiderealDay() Crossings {
	return c.jumpToBoundary(astro.TimeToNextSiderealDay(c.current), astro.SiderealDaySeconds)
}

// JumpToNextSolarDay advances to the next solar day boundary.
func (c *Continuous) JumpToNextSolarDay() Crossings {
	return c.jumpToBoundary(astro.TimeToNextSolarDay(c.current), astro.SolarDaySeconds)
}

// jumpToBoundary lands exactly on a multiple of length so the jump always
// registers as a crossing.
func (c *Continuous) jumpToBoundary(d, length float64) Crossings {
	before := c.current
	c.current = math.Round((before+d)/length) * length
	return crossings(before, c.current)
}

func crossings(before, after float64) Crossings {
	return Crossings{
		Sidereal: astro.DayCrossings(before, after, astro.SiderealDaySeconds),
		Solar:    astro.DayCrossings(before, after, astro.SolarDaySeconds),
	}
}
