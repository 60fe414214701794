package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloudeng.io/errors"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

const sample = `
location: Tokyo, Japan
mode: stepped
speed: 30
step_mode: sidereal
animate_within_day: true
time_of_day: "06:30"
convention: noon
fps: 20
options: {show_labels: false, high_contrast: true}
presets:
  - {name: Home, lat_deg: 47.6, lon_deg: -122.3}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Location != "Tokyo, Japan" || f.Speed != 30 || f.StepMode != "sidereal" {
		t.Errorf("unexpected file: %+v", f)
	}
	if f.AnimateWithinDay == nil || !*f.AnimateWithinDay {
		t.Error("animate_within_day not decoded")
	}
	if len(f.Presets) != 1 || f.Presets[0].Name != "Home" {
		t.Errorf("presets = %+v", f.Presets)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	cfg := state.DefaultConfig()
	if err := f.Apply(&cfg, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Mode != timestep.KindStepped || cfg.Reference != nil {
		t.Errorf("empty file changed defaults: %+v", cfg)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("mode: stepped\nspeeed: 5\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "speeed") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	f := &File{
		Mode:       "stepped",
		Speed:      7,
		StepMode:   "lunar",
		Convention: "dawn",
		TimeOfDay:  "25:00",
		FPS:        500,
		Location:   "Atlantis",
		Presets:    []Preset{{Name: "", LatDeg: 100, LonDeg: 0}},
	}
	err := f.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := err.(*errors.M); !ok {
		t.Fatalf("error type %T, want *errors.M", err)
	}
	// The bad preset's two problems nest under one entry.
	if !strings.Contains(err.Error(), "of 7 errors") {
		t.Errorf("want 7 top-level errors, got:\n%v", err)
	}
	if !errors.Is(err, timestep.ErrUnsupportedSpeed) {
		t.Error("missing ErrUnsupportedSpeed")
	}
	if !errors.Is(err, ErrUnknownPreset) {
		t.Error("missing ErrUnknownPreset")
	}
	if !errors.Is(err, timestep.ErrUnknownMode) {
		t.Error("missing ErrUnknownMode for step mode")
	}
}

func TestValidate_SpeedDependsOnMode(t *testing.T) {
	tests := []struct {
		mode    string
		speed   float64
		wantErr bool
	}{
		{"continuous", 1000, false},
		{"continuous", 30, true},
		{"stepped", 30, false},
		{"stepped", 1000, true},
		{"", 365, false}, // stepped by default
	}
	for _, tt := range tests {
		f := &File{Mode: tt.mode, Speed: tt.speed}
		if err := f.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("mode %q speed %v: err = %v, wantErr %v", tt.mode, tt.speed, err, tt.wantErr)
		}
	}
}

func TestValidate_EpochAndConventionExclusive(t *testing.T) {
	f := &File{Epoch: "2024-03-20", Convention: "noon"}
	if err := f.Validate(); err == nil {
		t.Error("expected error when both epoch and convention are set")
	}
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := state.DefaultConfig()
	if err := f.Apply(&cfg, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if cfg.Mode != timestep.KindStepped || cfg.Speed != 30 || cfg.StepMode != timestep.StepSidereal {
		t.Errorf("mode/speed/step = %v/%v/%v", cfg.Mode, cfg.Speed, cfg.StepMode)
	}
	if !cfg.AnimateWithinDay {
		t.Error("AnimateWithinDay not applied")
	}
	if cfg.TimeOfDay == nil || *cfg.TimeOfDay != 6*3600+30*60 {
		t.Errorf("TimeOfDay = %v", cfg.TimeOfDay)
	}
	if cfg.Observer.Name != "Tokyo, Japan" || math.Abs(cfg.Observer.LatDeg()-35.68) > 1e-9 {
		t.Errorf("Observer = %+v", cfg.Observer)
	}
	if cfg.Reference == nil || *cfg.Reference != astro.NoonZero.Reference() {
		t.Errorf("Reference = %v, want noon", cfg.Reference)
	}
	if cfg.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 50ms", cfg.FrameInterval)
	}
	want := state.Options{ShowLabels: false, ShowGrid: true, HighContrast: true}
	if cfg.Options != want {
		t.Errorf("Options = %+v, want %+v", cfg.Options, want)
	}

	if _, err := state.NewManager(cfg); err != nil {
		t.Errorf("NewManager with applied config: %v", err)
	}
}

func TestApply_Epoch(t *testing.T) {
	f := &File{Epoch: "2024-03-20T03:06:00Z"}
	cfg := state.DefaultConfig()
	if err := f.Apply(&cfg, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Reference == nil {
		t.Fatal("Reference not set")
	}
	if d := math.Abs(astro.AngleDiff(cfg.Reference.SunLon, 0)); d > astro.Deg2Rad(0.5) {
		t.Errorf("SunLon at equinox = %v°", astro.Rad2Deg(cfg.Reference.SunLon))
	}
	if !strings.HasPrefix(cfg.ReferenceName, "epoch 2024-03-20") {
		t.Errorf("ReferenceName = %q", cfg.ReferenceName)
	}
	if cfg.Epoch == nil || !cfg.Epoch.Instant.Equal(time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)) {
		t.Errorf("Epoch = %+v, want the configured instant", cfg.Epoch)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sidereal.yaml")
	if err := os.WriteFile(path, []byte("location: home\npresets:\n  - {name: Home, lat_deg: 10, lon_deg: 20}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := state.DefaultConfig()
	if err := f.Apply(&cfg, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Observer.Name != "Home" {
		t.Errorf("Observer = %+v", cfg.Observer)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindPreset(t *testing.T) {
	presets := DefaultPresets()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Greenwich, UK", "Greenwich, UK", false},
		{"greenwich, uk", "Greenwich, UK", false},
		{"tokyo", "Tokyo, Japan", false},
		{" North Pole ", "North Pole", false},
		{"Mars", "", true},
	}
	for _, tt := range tests {
		got, err := FindPreset(presets, tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("FindPreset(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPreset) {
				t.Errorf("FindPreset(%q) err = %v, want ErrUnknownPreset", tt.in, err)
			}
			continue
		}
		if got.Name != tt.want {
			t.Errorf("FindPreset(%q) = %q, want %q", tt.in, got.Name, tt.want)
		}
	}
}

func TestDefaultPresets(t *testing.T) {
	presets := DefaultPresets()
	if len(presets) != 7 {
		t.Fatalf("len = %d, want 7", len(presets))
	}
	for _, p := range presets {
		if err := p.validate(); err != nil {
			t.Errorf("%s: %v", p.Name, err)
		}
	}
}

func TestMergePresets(t *testing.T) {
	merged := mergePresets(DefaultPresets(), []Preset{
		{"equator", 0, 10},
		{"Home", 1, 2},
	})
	if len(merged) != 8 {
		t.Fatalf("len = %d, want 8", len(merged))
	}
	p, _ := FindPreset(merged, "Equator")
	if p.LonDeg != 10 {
		t.Errorf("override not applied: %+v", p)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00", 0, false},
		{"12:00", 43200, false},
		{"06:30:15", 6*3600 + 30*60 + 15, false},
		{"24:00", 86400, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"12", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
