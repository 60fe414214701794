package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

func TestLocalTimeOfDay(t *testing.T) {
	tests := []struct {
		name string
		conv astro.Convention
		t    float64
		want float64
	}{
		{"midnight convention at t=0", astro.MidnightZero, 0, 0},
		{"noon convention at t=0", astro.NoonZero, 0, 43200},
		{"midnight convention at 6h", astro.MidnightZero, 6 * 3600, 6 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := tt.conv.Reference()
			snap := state.Snapshot{
				EffectiveTime: tt.t,
				Observer:      astro.ObserverFromDegrees("Greenwich", 0, 0),
				Reference:     ref,
				Earth:         ref.EarthStateAt(tt.t),
			}
			got := LocalTimeOfDay(snap)
			// 0 and 86400 are the same instant on the dial
			diff := math.Abs(got - tt.want)
			if diff > astro.SolarDaySeconds/2 {
				diff = astro.SolarDaySeconds - diff
			}
			if diff > 1 {
				t.Errorf("LocalTimeOfDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDialCell(t *testing.T) {
	tests := []struct {
		tod  float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{astro.SolarDaySeconds / 2, DialWidth / 2},
		{astro.SolarDaySeconds - 1, DialWidth - 1},
		{astro.SolarDaySeconds, DialWidth - 1},
		{2 * astro.SolarDaySeconds, DialWidth - 1},
	}

	for _, tt := range tests {
		if got := dialCell(tt.tod); got != tt.want {
			t.Errorf("dialCell(%v) = %d, want %d", tt.tod, got, tt.want)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		frac       float64
		width      int
		wantFilled int
	}{
		{"empty", 0, 10, 0},
		{"full", 1, 10, 10},
		{"half", 0.5, 10, 5},
		{"over", 1.5, 10, 10},
		{"negative", -0.5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderProgressBar(tt.frac, tt.width, colorSidereal)
			if !strings.HasPrefix(bar, "▕") || !strings.HasSuffix(bar, "▏") {
				t.Errorf("bar should be bracketed, got %q", bar)
			}
			if got := strings.Count(bar, "█"); got != tt.wantFilled {
				t.Errorf("filled = %d, want %d", got, tt.wantFilled)
			}
			if got := strings.Count(bar, "░"); got != tt.width-tt.wantFilled {
				t.Errorf("empty = %d, want %d", got, tt.width-tt.wantFilled)
			}
		})
	}
}

func TestRenderClockPanel(t *testing.T) {
	snap := testSnapshot(t)
	panel := RenderClockPanel(snap)

	lines := strings.Split(panel, "\n")
	if len(lines) != 4 {
		t.Fatalf("panel has %d lines, want 4", len(lines))
	}
	for _, want := range []string{"STEPPED", "paused", "Solar", "Sidereal", "Drift", "Ref: midnight", "local"} {
		if !strings.Contains(panel, want) {
			t.Errorf("panel missing %q", want)
		}
	}
}

func TestRenderClockPanel_Continuous(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Mode = timestep.KindContinuous
	mgr, err := state.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	panel := RenderClockPanel(mgr.Snapshot())

	if !strings.Contains(panel, "CONTINUOUS") {
		t.Error("panel should name continuous mode")
	}
	if strings.Contains(panel, "step:") {
		t.Error("continuous panel should not show stepped details")
	}
}

func TestRenderDayDial_NoonMarker(t *testing.T) {
	snap := testSnapshot(t) // local noon at the equator
	dial := RenderDayDial(snap)

	if !strings.Contains(dial, "☉") {
		t.Errorf("dial at noon should carry the Sun marker: %q", dial)
	}
	if strings.Contains(dial, "☾") {
		t.Error("dial at noon should not carry the Moon marker")
	}
	// Equator: roughly half the cells are day
	if n := strings.Count(dial, "█"); n < DialWidth/3 || n > DialWidth*2/3 {
		t.Errorf("day cells = %d, want about half of %d", n, DialWidth)
	}
}
