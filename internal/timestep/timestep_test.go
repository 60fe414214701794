package timestep

import (
	"errors"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"continuous", KindContinuous, false},
		{"Stepped", KindStepped, false},
		{" step ", KindStepped, false},
		{"warp", KindContinuous, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnknownMode", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStepMode(t *testing.T) {
	if m, err := ParseStepMode("sidereal"); err != nil || m != StepSidereal {
		t.Errorf("ParseStepMode(sidereal) = %v, %v", m, err)
	}
	if m, err := ParseStepMode("SOLAR"); err != nil || m != StepSolar {
		t.Errorf("ParseStepMode(SOLAR) = %v, %v", m, err)
	}
	if _, err := ParseStepMode("lunar"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseStepMode(lunar) error = %v, want ErrUnknownMode", err)
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		in      string
		want    Speed
		wantErr bool
	}{
		{"100", 100, false},
		{"100x", 100, false},
		{"30X", 30, false},
		{" 1000x ", 1000, false},
		{"fast", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSpeed(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSpeed(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSpeed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSpeedString(t *testing.T) {
	if got := Speed(120).String(); got != "120x" {
		t.Errorf("Speed(120).String() = %q, want 120x", got)
	}
}

func TestNextPrevSpeed(t *testing.T) {
	tests := []struct {
		cur      Speed
		allowed  []Speed
		wantNext Speed
		wantPrev Speed
	}{
		{1, ContinuousSpeeds, 10, 1000},
		{1000, ContinuousSpeeds, 1, 100},
		{30, SteppedSpeeds, 120, 5},
		{7, SteppedSpeeds, 1, 1},
	}

	for _, tt := range tests {
		if got := NextSpeed(tt.cur, tt.allowed); got != tt.wantNext {
			t.Errorf("NextSpeed(%v) = %v, want %v", tt.cur, got, tt.wantNext)
		}
		if got := PrevSpeed(tt.cur, tt.allowed); got != tt.wantPrev {
			t.Errorf("PrevSpeed(%v) = %v, want %v", tt.cur, got, tt.wantPrev)
		}
	}
}

func TestSetSpeed_Validation(t *testing.T) {
	sources := []TimeSource{NewContinuous(), NewStepped()}
	for _, src := range sources {
		t.Run(src.Kind().String(), func(t *testing.T) {
			for _, sp := range src.Speeds() {
				if err := src.SetSpeed(sp); err != nil {
					t.Errorf("SetSpeed(%v) error = %v", sp, err)
				}
				if src.Speed() != sp {
					t.Errorf("Speed() = %v, want %v", src.Speed(), sp)
				}
			}

			before := src.Speed()
			for _, bad := range []Speed{0, -1, 2, 1e6} {
				err := src.SetSpeed(bad)
				if !errors.Is(err, ErrUnsupportedSpeed) {
					t.Errorf("SetSpeed(%v) error = %v, want ErrUnsupportedSpeed", bad, err)
				}
				if src.Speed() != before {
					t.Errorf("failed SetSpeed(%v) changed speed to %v", bad, src.Speed())
				}
			}
		})
	}
}

// Behavior shared by both schemes.
func TestStateMachine(t *testing.T) {
	newSources := map[string]func() TimeSource{
		"continuous": func() TimeSource { return NewContinuous() },
		"stepped":    func() TimeSource { return NewStepped() },
	}

	for name, newSrc := range newSources {
		t.Run(name+"/tick while paused is a no-op", func(t *testing.T) {
			src := newSrc()
			before := src.EffectiveTime()
			if c := src.Tick(at(100)); c.Any() {
				t.Errorf("paused Tick crossed %+v", c)
			}
			if src.EffectiveTime() != before {
				t.Errorf("paused Tick moved time %v -> %v", before, src.EffectiveTime())
			}
		})

		t.Run(name+"/play then tick at same instant", func(t *testing.T) {
			src := newSrc()
			src.Play(t0)
			before := src.EffectiveTime()
			src.Tick(t0)
			if src.EffectiveTime() != before {
				t.Errorf("zero-elapsed Tick moved time %v -> %v", before, src.EffectiveTime())
			}
		})

		t.Run(name+"/pause does not catch up on resume", func(t *testing.T) {
			src := newSrc()
			src.Play(t0)
			src.Tick(at(0.5))
			src.Pause()
			paused := src.EffectiveTime()

			// An hour of wall time while paused.
			src.Tick(at(3600))
			src.Play(at(3600))
			src.Tick(at(3600))
			if src.EffectiveTime() != paused {
				t.Errorf("resume jumped from %v to %v", paused, src.EffectiveTime())
			}
			if !src.Playing() {
				t.Error("Playing() = false after Play")
			}
		})

		t.Run(name+"/backwards clock counts as zero", func(t *testing.T) {
			src := newSrc()
			src.Play(at(10))
			before := src.EffectiveTime()
			src.Tick(at(5))
			if src.EffectiveTime() != before {
				t.Errorf("backwards Tick moved time %v -> %v", before, src.EffectiveTime())
			}
			// Back at the play instant no wall time has passed.
			src.Tick(at(10))
			if src.EffectiveTime() != before {
				t.Errorf("Tick after a backwards jump moved time %v -> %v", before, src.EffectiveTime())
			}
		})

		t.Run(name+"/reset pauses", func(t *testing.T) {
			src := newSrc()
			src.Play(t0)
			src.Tick(at(3))
			src.Reset()
			if src.Playing() {
				t.Error("Playing() = true after Reset")
			}
			fresh := newSrc()
			if src.EffectiveTime() != fresh.EffectiveTime() {
				t.Errorf("EffectiveTime after Reset = %v, want %v", src.EffectiveTime(), fresh.EffectiveTime())
			}
		})

		t.Run(name+"/reads are pure", func(t *testing.T) {
			src := newSrc()
			src.Play(t0)
			src.Tick(at(1.25))
			a, b := src.EffectiveTime(), src.EffectiveTime()
			if a != b {
				t.Errorf("EffectiveTime not stable: %v vs %v", a, b)
			}
		})
	}
}

func TestCrossingsAny(t *testing.T) {
	if (Crossings{}).Any() {
		t.Error("zero Crossings reported Any")
	}
	if !(Crossings{Solar: 1}).Any() {
		t.Error("Crossings{Solar: 1}.Any() = false")
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}
