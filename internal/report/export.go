// Package report renders simulation state for headless output: a JSON
// snapshot, a text summary, an ASCII mini sky and the event log.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
)

// SnapshotExport is the JSON-serializable simulation state.
type SnapshotExport struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	EffectiveTime float64        `json:"effective_time"`
	Mode          string         `json:"mode"`
	Playing       bool           `json:"playing"`
	Speed         float64        `json:"speed"`
	DayCount      int64          `json:"day_count"`
	TimeOfDay     float64        `json:"time_of_day"`
	StepMode      string         `json:"step_mode"`
	Reference     string         `json:"reference"`
	Calendar      *time.Time     `json:"calendar,omitempty"`
	Earth         EarthExport    `json:"earth"`
	GMSTDeg       float64        `json:"gmst_deg"`
	LSTDeg        float64        `json:"lst_deg"`
	Phase         string         `json:"phase"`
	Sun           SunExport      `json:"sun"`
	Stars         []StarExport   `json:"stars"`
	DriftSeconds  float64        `json:"drift_seconds"`
	NextSidereal  float64        `json:"next_sidereal_day_seconds"`
	NextSolar     float64        `json:"next_solar_day_seconds"`
	Observer      ObserverExport `json:"observer"`
}

// EarthExport is the Earth state in degrees.
type EarthExport struct {
	SiderealDeg    float64 `json:"sidereal_deg"`
	OrbitDeg       float64 `json:"orbit_deg"`
	SunEclipticDeg float64 `json:"sun_ecliptic_deg"`
}

// SunExport is the Sun's horizontal position.
type SunExport struct {
	AltDeg float64 `json:"alt_deg"`
	AzDeg  float64 `json:"az_deg"`
}

// StarExport is one star above the horizon.
type StarExport struct {
	Name      string  `json:"name"`
	AltDeg    float64 `json:"alt_deg"`
	AzDeg     float64 `json:"az_deg"`
	Magnitude float64 `json:"magnitude"`
	Size      float64 `json:"size"`
	Opacity   float64 `json:"opacity"`
}

// ObserverExport is the observer location in degrees.
type ObserverExport struct {
	Name   string  `json:"name"`
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
}

// ExportSnapshot combines a state snapshot with the sky frame computed for
// the same instant. Only stars drawn on the dome are included.
func ExportSnapshot(snap state.Snapshot, f sky.Frame, generatedAt time.Time) *SnapshotExport {
	t := snap.EffectiveTime
	export := &SnapshotExport{
		GeneratedAt:   generatedAt,
		EffectiveTime: t,
		Mode:          snap.Mode.String(),
		Playing:       snap.Playing,
		Speed:         float64(snap.Speed),
		DayCount:      snap.DayCount,
		TimeOfDay:     snap.TimeOfDay,
		StepMode:      snap.StepMode.String(),
		Reference:     snap.ReferenceName,
		Earth: EarthExport{
			SiderealDeg:    astro.Rad2Deg(f.Earth.SiderealAngle),
			OrbitDeg:       astro.Rad2Deg(f.Earth.OrbitAngle),
			SunEclipticDeg: astro.Rad2Deg(f.Earth.SunEclipticLon),
		},
		GMSTDeg: astro.Rad2Deg(f.GMST),
		LSTDeg:  astro.Rad2Deg(f.LST),
		Phase:   f.Phase.String(),
		Sun: SunExport{
			AltDeg: astro.Rad2Deg(f.Sun.Horizontal.Altitude),
			AzDeg:  astro.Rad2Deg(f.Sun.Horizontal.Azimuth),
		},
		Stars:        []StarExport{},
		DriftSeconds: snap.Drift,
		NextSidereal: astro.TimeToNextSiderealDay(t),
		NextSolar:    astro.TimeToNextSolarDay(t),
		Observer: ObserverExport{
			Name:   snap.Observer.Name,
			LatDeg: snap.Observer.LatDeg(),
			LonDeg: snap.Observer.LonDeg(),
		},
	}

	if !snap.Calendar.IsZero() {
		cal := snap.Calendar
		export.Calendar = &cal
	}

	for _, s := range f.VisibleStars() {
		export.Stars = append(export.Stars, StarExport{
			Name:      s.Name,
			AltDeg:    astro.Rad2Deg(s.Horizontal.Altitude),
			AzDeg:     astro.Rad2Deg(s.Horizontal.Azimuth),
			Magnitude: s.Magnitude,
			Size:      s.Size,
			Opacity:   s.Opacity,
		})
	}
	return export
}

// WriteJSON writes the snapshot as indented JSON.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
