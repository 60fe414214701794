package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/epoch"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
)

// nightAt returns a stepped snapshot at local midnight for the named observer.
func nightAt(t *testing.T, obs astro.Observer) (state.Snapshot, sky.Frame) {
	t.Helper()
	cfg := state.DefaultConfig()
	cfg.Observer = obs
	midnight := 0.0
	cfg.TimeOfDay = &midnight
	m, err := state.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	snap := m.Snapshot()
	return snap, sky.Compute(snap.EffectiveTime, snap.Observer, snap.Reference)
}

func TestExportSnapshot(t *testing.T) {
	snap, f := nightAt(t, astro.ObserverFromDegrees("Greenwich, UK", 51.48, 0))
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	export := ExportSnapshot(snap, f, generated)

	if export.GeneratedAt != generated {
		t.Errorf("GeneratedAt = %v, want %v", export.GeneratedAt, generated)
	}
	if export.Mode != "stepped" || export.StepMode != "solar" {
		t.Errorf("mode/step = %q/%q", export.Mode, export.StepMode)
	}
	if export.Observer.Name != "Greenwich, UK" {
		t.Errorf("Observer = %+v", export.Observer)
	}
	if export.Sun.AltDeg > -30 {
		t.Errorf("Sun altitude at midnight = %v°, want well below horizon", export.Sun.AltDeg)
	}
	if len(export.Stars) == 0 {
		t.Fatal("expected stars above the horizon at midnight")
	}
	for _, s := range export.Stars {
		if s.AltDeg < 0 {
			t.Errorf("%s exported at altitude %v°", s.Name, s.AltDeg)
		}
		if s.Size < 1 || s.Size > 5 || s.Opacity < 0.3 || s.Opacity > 1 {
			t.Errorf("%s size=%v opacity=%v out of range", s.Name, s.Size, s.Opacity)
		}
	}
	if export.NextSolar <= 0 || export.NextSolar > astro.SolarDaySeconds {
		t.Errorf("NextSolar = %v", export.NextSolar)
	}
}

func TestSnapshotExport_WriteJSON(t *testing.T) {
	snap, f := nightAt(t, astro.ObserverFromDegrees("Equator", 0, 0))
	export := ExportSnapshot(snap, f, time.Now())

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, key := range []string{"effective_time", "mode", "earth", "lst_deg", "sun", "stars", "drift_seconds", "observer"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
	earth, _ := parsed["earth"].(map[string]interface{})
	if _, ok := earth["sidereal_deg"]; !ok {
		t.Error("earth missing sidereal_deg")
	}
	if !strings.Contains(buf.String(), "  ") {
		t.Error("JSON should be indented")
	}
}

func TestWriteSummary(t *testing.T) {
	snap, f := nightAt(t, astro.ObserverFromDegrees("Greenwich, UK", 51.48, 0))

	var buf bytes.Buffer
	WriteSummary(&buf, snap, f)
	output := buf.String()

	for _, want := range []string{
		"Sidereal Status",
		"Greenwich, UK",
		"Mode:        stepped, paused at 1x",
		"Drift:       +0m 00s",
		"Sun window:",
		"Brightest:   Sirius, ",
		"night",
		"stars visible",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q:\n%s", want, output)
		}
	}
}

func TestWriteSummary_Calendar(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.UseEpoch(epoch.New(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))
	m, err := state.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.StepForward()
	snap := m.Snapshot()
	f := sky.Compute(snap.EffectiveTime, snap.Observer, snap.Reference)

	var buf bytes.Buffer
	WriteSummary(&buf, snap, f)
	// Day one, local noon.
	if !strings.Contains(buf.String(), "Calendar:    2025-03-21 12:00:00 UTC") {
		t.Errorf("summary missing calendar line:\n%s", buf.String())
	}

	export := ExportSnapshot(snap, f, time.Now())
	if export.Calendar == nil || !export.Calendar.Equal(snap.Calendar) {
		t.Errorf("export calendar = %v, want %v", export.Calendar, snap.Calendar)
	}
}

func TestBrightestStar(t *testing.T) {
	if got := brightestStar(); got.Name != "Sirius" {
		t.Errorf("brightestStar = %q, want Sirius", got.Name)
	}
}

func TestGenerateStarRows_SortedByAltitude(t *testing.T) {
	_, f := nightAt(t, astro.ObserverFromDegrees("Tokyo, Japan", 35.68, 139.65))
	rows := GenerateStarRows(f)
	if len(rows) == 0 {
		t.Fatal("no rows")
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Altitude > rows[i-1].Altitude {
			t.Fatalf("rows not sorted: %v before %v", rows[i-1], rows[i])
		}
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{337, "NW"},
		{359, "N"},
	}
	for _, tt := range tests {
		if got := Compass(astro.Deg2Rad(tt.deg)); got != tt.want {
			t.Errorf("Compass(%v°) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestFormatDrift(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "+0m 00s"},
		{236, "+3m 56s"},
		{-236, "-3m 56s"},
		{236 * 365, "+1435m 40s"},
	}
	for _, tt := range tests {
		if got := FormatDrift(tt.in); got != tt.want {
			t.Errorf("FormatDrift(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteMiniSky(t *testing.T) {
	_, f := nightAt(t, astro.ObserverFromDegrees("Greenwich, UK", 51.48, 0))

	var buf bytes.Buffer
	WriteMiniSky(&buf, f, DefaultMiniSkyConfig())
	output := buf.String()

	if !strings.Contains(output, "┌") || !strings.Contains(output, "┘") {
		t.Error("Mini sky should have box borders")
	}
	for _, c := range []string{"N", "E", "S", "W"} {
		if !strings.Contains(output, c) {
			t.Errorf("Mini sky missing cardinal %s", c)
		}
	}
	if !strings.ContainsAny(output, "*✦") {
		t.Error("Mini sky should plot stars")
	}

	lines := strings.Split(output, "\n")
	// Border, 21 rows, border.
	if got := len([]rune(lines[1])); got != 43 {
		t.Errorf("row width = %d runes, want 43", got)
	}
}

func TestWriteMiniSky_Daytime(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Observer = astro.ObserverFromDegrees("Equator", 0, 0)
	m, err := state.NewManager(cfg) // noon by default
	if err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	f := sky.Compute(snap.EffectiveTime, snap.Observer, snap.Reference)

	var buf bytes.Buffer
	WriteMiniSky(&buf, f, MiniSkyConfig{Width: 21, Height: 11})
	if !strings.Contains(buf.String(), "☉") {
		t.Error("Sun should be drawn at noon")
	}
}

func TestWriteEvents(t *testing.T) {
	ts := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	events := []state.Event{
		{Type: state.EventStep, Timestamp: ts, SimTime: 86400, Count: 1},
		{Type: state.EventSiderealDay, Timestamp: ts, SimTime: 172328, Count: 2},
		{Type: state.EventLocation, Timestamp: ts, Detail: "Tokyo, Japan"},
	}

	var buf bytes.Buffer
	WriteEvents(&buf, events)
	output := buf.String()

	if !strings.Contains(output, "Event Log") {
		t.Error("Should have Event Log header")
	}
	if strings.Index(output, "→STEP") > strings.Index(output, "★SID") {
		t.Error("events should be written oldest first")
	}
	if !strings.Contains(output, "★SID") || !strings.Contains(output, "×2") {
		t.Errorf("missing sidereal event:\n%s", output)
	}
	if !strings.Contains(output, "Tokyo, Japan") {
		t.Error("missing location detail")
	}
}

func TestWriteEvents_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, nil)
	if !strings.Contains(buf.String(), "No events") {
		t.Error("Empty events should say no events")
	}
}

func TestTruncateStr(t *testing.T) {
	if got := truncateStr("Betelgeuse", 6); got != "Bete.." {
		t.Errorf("truncateStr = %q, want Bete..", got)
	}
	if got := truncateStr("Vega", 12); got != "Vega" {
		t.Errorf("truncateStr = %q, want Vega", got)
	}
}
