// Package config loads the optional YAML configuration file and applies it
// to the simulation's state configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/epoch"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

// Options mirrors state.Options with every field optional.
type Options struct {
	ShowLabels   *bool `yaml:"show_labels"`
	ShowGrid     *bool `yaml:"show_grid"`
	HighContrast *bool `yaml:"high_contrast"`
	ReduceMotion *bool `yaml:"reduce_motion"`
}

func (o Options) apply(dst *state.Options) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&dst.ShowLabels, o.ShowLabels)
	set(&dst.ShowGrid, o.ShowGrid)
	set(&dst.HighContrast, o.HighContrast)
	set(&dst.ReduceMotion, o.ReduceMotion)
}

// File is the on-disk configuration. Empty fields leave defaults alone.
type File struct {
	Location         string   `yaml:"location"`
	Mode             string   `yaml:"mode"`
	Speed            float64  `yaml:"speed"`
	StepMode         string   `yaml:"step_mode"`
	AnimateWithinDay *bool    `yaml:"animate_within_day"`
	TimeOfDay        string   `yaml:"time_of_day"` // HH:MM or HH:MM:SS
	Convention       string   `yaml:"convention"`
	Epoch            string   `yaml:"epoch"`
	FPS              int      `yaml:"fps"`
	MaxEvents        int      `yaml:"max_events"`
	LogLevel         string   `yaml:"log_level"`
	Options          Options  `yaml:"options"`
	Presets          []Preset `yaml:"presets"`
}

// Parse decodes data, rejecting unknown fields, and validates the result.
func Parse(data []byte) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate reports every problem in f at once.
func (f *File) Validate() error {
	var errs errors.M

	for _, p := range f.Presets {
		errs.Append(p.validate())
	}

	kind := timestep.KindStepped
	if f.Mode != "" {
		k, err := timestep.ParseKind(f.Mode)
		errs.Append(err)
		if err == nil {
			kind = k
		}
	}
	if f.Speed != 0 {
		errs.Append(timestep.ValidateSpeed(kind, timestep.Speed(f.Speed)))
	}
	if f.StepMode != "" {
		if _, err := timestep.ParseStepMode(f.StepMode); err != nil {
			errs.Append(err)
		}
	}
	if f.TimeOfDay != "" {
		if _, err := ParseTimeOfDay(f.TimeOfDay); err != nil {
			errs.Append(err)
		}
	}
	if f.Convention != "" {
		if _, ok := astro.ParseConvention(f.Convention); !ok {
			errs.Append(fmt.Errorf("unknown convention %q (want midnight or noon)", f.Convention))
		}
	}
	if f.Epoch != "" {
		if f.Convention != "" {
			errs.Append(fmt.Errorf("epoch and convention are mutually exclusive"))
		}
		if _, err := epoch.Parse(f.Epoch, time.Now()); err != nil {
			errs.Append(fmt.Errorf("epoch %q: %w", f.Epoch, err))
		}
	}
	if f.FPS < 0 || f.FPS > 120 {
		errs.Append(fmt.Errorf("fps %d outside [0, 120]", f.FPS))
	}
	if f.MaxEvents < 0 {
		errs.Append(fmt.Errorf("max_events %d is negative", f.MaxEvents))
	}
	if f.Location != "" {
		if _, err := FindPreset(f.AllPresets(), f.Location); err != nil {
			errs.Append(err)
		}
	}
	return errs.Err()
}

// AllPresets is the built-in presets merged with the file's own.
func (f *File) AllPresets() []Preset {
	if f == nil {
		return DefaultPresets()
	}
	return mergePresets(DefaultPresets(), f.Presets)
}

// Apply overlays f onto cfg. now resolves an epoch of "now".
func (f *File) Apply(cfg *state.Config, now time.Time) error {
	if f.Mode != "" {
		k, err := timestep.ParseKind(f.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = k
	}
	if f.Speed != 0 {
		s := timestep.Speed(f.Speed)
		if err := timestep.ValidateSpeed(cfg.Mode, s); err != nil {
			return err
		}
		cfg.Speed = s
	}
	if f.StepMode != "" {
		sm, err := timestep.ParseStepMode(f.StepMode)
		if err != nil {
			return err
		}
		cfg.StepMode = sm
	}
	if f.AnimateWithinDay != nil {
		cfg.AnimateWithinDay = *f.AnimateWithinDay
	}
	if f.TimeOfDay != "" {
		tod, err := ParseTimeOfDay(f.TimeOfDay)
		if err != nil {
			return err
		}
		cfg.TimeOfDay = &tod
	}
	if f.Location != "" {
		p, err := FindPreset(f.AllPresets(), f.Location)
		if err != nil {
			return err
		}
		cfg.Observer = p.Observer()
	}
	switch {
	case f.Epoch != "":
		at, err := epoch.Parse(f.Epoch, now)
		if err != nil {
			return fmt.Errorf("epoch %q: %w", f.Epoch, err)
		}
		cfg.UseEpoch(epoch.New(at))
	case f.Convention != "":
		c, ok := astro.ParseConvention(f.Convention)
		if !ok {
			return fmt.Errorf("unknown convention %q", f.Convention)
		}
		cfg.UseConvention(c)
	}
	if f.FPS > 0 {
		cfg.FrameInterval = time.Second / time.Duration(f.FPS)
	}
	if f.MaxEvents > 0 {
		cfg.MaxEvents = f.MaxEvents
	}
	f.Options.apply(&cfg.Options)
	return nil
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into seconds after midnight.
// "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (float64, error) {
	s = strings.TrimSpace(s)
	var h, m, sec int
	if n, _ := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); n < 2 {
		return 0, fmt.Errorf("time of day %q: want HH:MM[:SS]", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || sec < 0 || sec > 59 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return float64(h*3600 + m*60 + sec), nil
}
