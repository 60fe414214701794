package epoch

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		name       string
		instant    time.Time
		wantGMST   float64 // degrees
		wantSunLon float64 // degrees
		tolDeg     float64
	}{
		// J2000.0: GMST 280.46°, apparent solar longitude about 280.37°.
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 280.46, 280.37, 0.5},
		// March equinox 2024 at 03:06 UTC.
		{"equinox 2024", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0, 0, 0.5},
		// June solstice 2024 at 20:51 UTC.
		{"solstice 2024", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), -1, 90, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Align(tt.instant)
			if tt.wantGMST >= 0 {
				if d := astro.Rad2Deg(math.Abs(astro.AngleDiff(ref.GMST, astro.Deg2Rad(tt.wantGMST)))); d > tt.tolDeg {
					t.Errorf("GMST = %.3f°, want %.3f° (off by %.3f°)", astro.Rad2Deg(ref.GMST), tt.wantGMST, d)
				}
			}
			if d := astro.Rad2Deg(math.Abs(astro.AngleDiff(ref.SunLon, astro.Deg2Rad(tt.wantSunLon)))); d > tt.tolDeg {
				t.Errorf("SunLon = %.3f°, want %.3f° (off by %.3f°)", astro.Rad2Deg(ref.SunLon), tt.wantSunLon, d)
			}
		})
	}
}

func TestAlign_SunOnMeridianAtLocalNoon(t *testing.T) {
	// Near the equinox the Sun crosses the Greenwich meridian close to 12:07 UTC
	// (equation of time about -7.5 minutes).
	ref := Align(time.Date(2024, 3, 20, 12, 7, 0, 0, time.UTC))
	sun := astro.SunEquatorial(ref.EarthStateAt(0))
	ha := astro.HourAngle(astro.CalculateLST(ref.GMST, 0), sun.RA)
	if d := astro.Rad2Deg(math.Abs(astro.AngleDiff(ha, 0))); d > 1 {
		t.Errorf("Sun hour angle at Greenwich noon = %.3f°, want ~0", d)
	}
}

func TestEpoch_RoundTrip(t *testing.T) {
	instant := time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)
	e := New(instant)

	at := e.At(86400 * 1.5)
	want := time.Date(2025, 12, 22, 12, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("At(1.5 days) = %v, want %v", at, want)
	}
	if got := e.Name(); got != "epoch 2025-12-21T00:00:00Z" {
		t.Errorf("Name = %q", got)
	}
}

func TestParse(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"now", now, false},
		{"2024-03-20T03:06:00Z", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), false},
		{"2024-03-20T05:06:00+02:00", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), false},
		{"2024-03-20", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), false},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
