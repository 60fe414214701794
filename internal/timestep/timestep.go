// Package timestep turns wall-clock ticks into simulation time.
//
// Two schemes sit behind the TimeSource interface: Continuous advances a
// scalar clock at a chosen rate, Stepped counts whole days of a chosen
// length plus a time of day. Sources never read the wall clock themselves;
// the scheduler passes now into every call that needs it. Sources are not
// safe for concurrent use.
package timestep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a time-stepping scheme.
type Kind int

const (
	KindContinuous Kind = iota
	KindStepped
)

// String returns the scheme name.
func (k Kind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindStepped:
		return "stepped"
	default:
		return "unknown"
	}
}

// ErrUnknownMode is returned when parsing an unrecognized scheme or step mode.
var ErrUnknownMode = errors.New("unknown mode")

// ErrUnsupportedSpeed is returned when a speed is not offered by a scheme.
var ErrUnsupportedSpeed = errors.New("unsupported speed")

// ParseKind parses "continuous" or "stepped".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continuous", "clock":
		return KindContinuous, nil
	case "stepped", "step", "days":
		return KindStepped, nil
	}
	return KindContinuous, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Speed is a playback multiplier. For Continuous it is simulated seconds per
// real second; for Stepped it is days per real second.
type Speed float64

// String formats the speed the way the controls show it.
func (s Speed) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "x"
}

// ParseSpeed parses "100", "100x" or "30X".
func ParseSpeed(s string) (Speed, error) {
	v := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(s), "x"), "X")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse speed %q: %w", s, err)
	}
	return Speed(f), nil
}

// Speeds offered by each scheme, slowest first.
var (
	ContinuousSpeeds = []Speed{1, 10, 100, 1000}
	SteppedSpeeds    = []Speed{1, 5, 30, 120, 365}
)

// SpeedsFor returns the speeds offered by scheme k.
func SpeedsFor(k Kind) []Speed {
	if k == KindStepped {
		return SteppedSpeeds
	}
	return ContinuousSpeeds
}

// ValidateSpeed reports ErrUnsupportedSpeed when s is not offered by k.
func ValidateSpeed(k Kind, s Speed) error {
	return validSpeed(s, SpeedsFor(k))
}

func validSpeed(s Speed, allowed []Speed) error {
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %v (allowed %v)", ErrUnsupportedSpeed, s, allowed)
}

// NextSpeed returns the speed after cur in allowed, wrapping to the first.
// An unknown cur yields the first speed.
func NextSpeed(cur Speed, allowed []Speed) Speed {
	for i, a := range allowed {
		if a == cur {
			return allowed[(i+1)%len(allowed)]
		}
	}
	return allowed[0]
}

// PrevSpeed returns the speed before cur in allowed, wrapping to the last.
func PrevSpeed(cur Speed, allowed []Speed) Speed {
	for i, a := range allowed {
		if a == cur {
			return allowed[(i+len(allowed)-1)%len(allowed)]
		}
	}
	return allowed[0]
}

// Crossings reports how many day boundaries of each length a tick crossed.
type Crossings struct {
	Sidereal int
	Solar    int
}

// Any reports whether at least one boundary was crossed.
func (c Crossings) Any() bool {
	return c.Sidereal > 0 || c.Solar > 0
}

// TimeSource produces the scalar simulation time.
type TimeSource interface {
	Kind() Kind

	// EffectiveTime is a pure read: two calls with no mutation in between
	// return the same value.
	EffectiveTime() float64

	Playing() bool
	Play(now time.Time)
	Pause()
	Reset()

	// Tick advances the source by the wall time elapsed since the last
	// tick or Play. Ticking while paused does nothing.
	Tick(now time.Time) Crossings

	Speed() Speed
	SetSpeed(s Speed) error
	Speeds() []Speed
}

// clock is the Paused/Playing state machine shared by both schemes.
type clock struct {
	playing bool
	speed   Speed
	last    time.Time
}

func (c *clock) play(now time.Time) {
	c.playing = true
	c.last = now
}

func (c *clock) pause() {
	c.playing = false
}

// elapsed returns the real seconds since the last tick and records now.
// A clock running backwards yields zero and keeps the last instant, so the
// same wall interval is never counted twice.
func (c *clock) elapsed(now time.Time) float64 {
	dt := now.Sub(c.last).Seconds()
	if dt < 0 {
		return 0
	}
	c.last = now
	return dt
}

var (
	_ TimeSource = (*Continuous)(nil)
	_ TimeSource = (*Stepped)(nil)
)
