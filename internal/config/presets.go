package config

import (
	"fmt"
	"strings"

	"cloudeng.io/errors"

	"github.com/litescript/ls-sidereal/internal/astro"
)

// ErrUnknownPreset is returned when a location name matches no preset.
var ErrUnknownPreset = errors.New("unknown location preset")

// Preset is a named observer location in degrees.
type Preset struct {
	Name   string  `yaml:"name"`
	LatDeg float64 `yaml:"lat_deg"`
	LonDeg float64 `yaml:"lon_deg"`
}

// Observer converts the preset to radians.
func (p Preset) Observer() astro.Observer {
	return astro.ObserverFromDegrees(p.Name, p.LatDeg, p.LonDeg)
}

func (p Preset) validate() error {
	var errs errors.M
	if strings.TrimSpace(p.Name) == "" {
		errs.Append(fmt.Errorf("preset at %.2f, %.2f has no name", p.LatDeg, p.LonDeg))
	}
	if p.LatDeg < -90 || p.LatDeg > 90 {
		errs.Append(fmt.Errorf("preset %q: latitude %v outside [-90, 90]", p.Name, p.LatDeg))
	}
	if p.LonDeg < -180 || p.LonDeg > 180 {
		errs.Append(fmt.Errorf("preset %q: longitude %v outside [-180, 180]", p.Name, p.LonDeg))
	}
	return errs.Err()
}

// DefaultPresets returns the built-in locations.
func DefaultPresets() []Preset {
	return []Preset{
		{"Greenwich, UK", 51.48, 0},
		{"New York, USA", 40.71, -74.01},
		{"Tokyo, Japan", 35.68, 139.65},
		{"Sydney, Australia", -33.87, 151.21},
		{"Cairo, Egypt", 30.04, 31.24},
		{"Equator", 0, 0},
		{"North Pole", 90, 0},
	}
}

// FindPreset looks name up case-insensitively, first as a full name and then
// as the part before the first comma ("tokyo" finds "Tokyo, Japan").
func FindPreset(presets []Preset, name string) (Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	for _, p := range presets {
		short, _, _ := strings.Cut(p.Name, ",")
		if strings.EqualFold(strings.TrimSpace(short), name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// mergePresets returns base with extra appended; an extra preset replaces a
// base preset of the same name.
func mergePresets(base, extra []Preset) []Preset {
	out := make([]Preset, len(base), len(base)+len(extra))
	copy(out, base)
	for _, p := range extra {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, p.Name) {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}
