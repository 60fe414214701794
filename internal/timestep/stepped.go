package timestep

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// StepMode selects the day length a Stepped source counts in.
type StepMode int

const (
	StepSolar StepMode = iota
	StepSidereal
)

// String returns the step mode name.
func (m StepMode) String() string {
	if m == StepSidereal {
		return "sidereal"
	}
	return "solar"
}

// DayLength returns the length of one step in seconds.
func (m StepMode) DayLength() float64 {
	if m == StepSidereal {
		return astro.SiderealDaySeconds
	}
	return astro.SolarDaySeconds
}

// ParseStepMode parses "solar" or "sidereal".
func ParseStepMode(s string) (StepMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solar":
		return StepSolar, nil
	case "sidereal":
		return StepSidereal, nil
	}
	return StepSolar, fmt.Errorf("%w: step mode %q", ErrUnknownMode, s)
}

// DefaultTimeOfDay is noon, in seconds since midnight.
const DefaultTimeOfDay = 43200

// Stepped counts whole days of the step mode's length. At Speed n it
// completes n days per real second.
type Stepped struct {
	clock
	dayCount         int64
	timeOfDay        float64
	stepMode         StepMode
	accumulator      float64
	animateWithinDay bool
}

// NewStepped returns a paused source at day 0, noon, solar steps, 1 day/s.
func NewStepped() *Stepped {
	return &Stepped{
		clock:     clock{speed: 1},
		timeOfDay: DefaultTimeOfDay,
	}
}

// Kind implements TimeSource.
func (s *Stepped) Kind() Kind { return KindStepped }

// EffectiveTime returns days × dayLength + timeOfDay, counting the partial
// day in the accumulator when animating within the day.
func (s *Stepped) EffectiveTime() float64 {
	days := float64(s.dayCount)
	if s.animateWithinDay {
		days += s.accumulator
	}
	return days*s.stepMode.DayLength() + s.timeOfDay
}

// Playing implements TimeSource.
func (s *Stepped) Playing() bool { return s.playing }

// Play starts playback from now. Any partial day is discarded.
func (s *Stepped) Play(now time.Time) {
	s.accumulator = 0
	s.play(now)
}

// Pause stops playback.
func (s *Stepped) Pause() { s.pause() }

// Reset pauses and returns to day 0 at noon.
func (s *Stepped) Reset() {
	s.pause()
	s.dayCount = 0
	s.accumulator = 0
	s.timeOfDay = DefaultTimeOfDay
}

// Speed implements TimeSource.
func (s *Stepped) Speed() Speed { return s.speed }

// Speeds implements TimeSource.
func (s *Stepped) Speeds() []Speed { return SteppedSpeeds }

// SetSpeed changes the days-per-second rate. The state is unchanged on error.
func (s *Stepped) SetSpeed(sp Speed) error {
	if err := validSpeed(sp, SteppedSpeeds); err != nil {
		return err
	}
	s.speed = sp
	return nil
}

// Tick accumulates elapsed days and moves whole ones into the day count.
// The returned Crossings holds the whole days in the current step mode's
// slot.
func (s *Stepped) Tick(now time.Time) Crossings {
	if !s.playing {
		return Crossings{}
	}
	s.accumulator += s.elapsed(now) * float64(s.speed)
	whole := math.Floor(s.accumulator)
	s.dayCount += int64(whole)
	s.accumulator -= whole
	return s.dayCrossings(int(whole))
}

// StepForward advances exactly one day and pauses.
func (s *Stepped) StepForward() Crossings {
	s.pause()
	s.dayCount++
	return s.dayCrossings(1)
}

func (s *Stepped) dayCrossings(n int) Crossings {
	if s.stepMode == StepSidereal {
		return Crossings{Sidereal: n}
	}
	return Crossings{Solar: n}
}

// DayCount returns the whole days completed.
func (s *Stepped) DayCount() int64 { return s.dayCount }

// Accumulator returns the partial day in [0, 1).
func (s *Stepped) Accumulator() float64 { return s.accumulator }

// TimeOfDay returns seconds since midnight.
func (s *Stepped) TimeOfDay() float64 { return s.timeOfDay }

// SetTimeOfDay sets the time of day, clamped to [0, 86400].
func (s *Stepped) SetTimeOfDay(sec float64) {
	switch {
	case sec < 0:
		sec = 0
	case sec > astro.SolarDaySeconds:
		sec = astro.SolarDaySeconds
	}
	s.timeOfDay = sec
}

// StepMode returns the current step mode.
func (s *Stepped) StepMode() StepMode { return s.stepMode }

// SetStepMode changes the day length. The day count is kept, so the
// effective time jumps by dayCount × 236 s.
func (s *Stepped) SetStepMode(m StepMode) { s.stepMode = m }

// AnimateWithinDay reports whether partial days move the effective time.
func (s *Stepped) AnimateWithinDay() bool { return s.animateWithinDay }

// SetAnimateWithinDay toggles smooth within-day animation.
func (s *Stepped) SetAnimateWithinDay(on bool) { s.animateWithinDay = on }

// Drift returns the cumulative solar-sidereal drift after DayCount steps.
func (s *Stepped) Drift() int64 { return astro.SteppedDrift(s.dayCount) }
