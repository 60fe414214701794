package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

const ruleWidth = 72

// StarRow is one row of the visible-star table.
type StarRow struct {
	Name      string
	Altitude  float64 // degrees
	Azimuth   float64 // degrees
	Compass   string
	Magnitude float64
}

// GenerateStarRows lists visible stars, highest first.
func GenerateStarRows(f sky.Frame) []StarRow {
	var rows []StarRow
	for _, s := range f.VisibleStars() {
		rows = append(rows, StarRow{
			Name:      s.Name,
			Altitude:  astro.Rad2Deg(s.Horizontal.Altitude),
			Azimuth:   astro.Rad2Deg(s.Horizontal.Azimuth),
			Compass:   Compass(s.Horizontal.Azimuth),
			Magnitude: s.Magnitude,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Altitude > rows[j].Altitude })
	return rows
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass names the eighth of the horizon an azimuth falls in.
func Compass(az float64) string {
	i := int(astro.NormalizeAngle(az+astro.Deg2Rad(22.5))/astro.Deg2Rad(45)) % len(compassPoints)
	return compassPoints[i]
}

// WriteSummary writes the clock, drift, Sun and visible-star tables.
func WriteSummary(w io.Writer, snap state.Snapshot, f sky.Frame) {
	t := snap.EffectiveTime

	fmt.Fprintf(w, "Sidereal Status @ %s (%s)\n", astro.FormatDuration(t), snap.Observer.Name)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	status := "paused"
	if snap.Playing {
		status = "playing"
	}
	fmt.Fprintf(w, "Mode:        %s, %s at %s\n", snap.Mode, status, snap.Speed)
	if snap.Mode == timestep.KindStepped {
		fmt.Fprintf(w, "Step:        %s days, day %d at %s\n",
			snap.StepMode, snap.DayCount, astro.FormatTimeOfDay(snap.TimeOfDay))
	}
	fmt.Fprintf(w, "Reference:   %s\n", snap.ReferenceName)
	if !snap.Calendar.IsZero() {
		fmt.Fprintf(w, "Calendar:    %s\n", snap.Calendar.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "Location:    %.2f°, %.2f°\n", snap.Observer.LatDeg(), snap.Observer.LonDeg())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Solar time:  %s\n", astro.FormatTime(t))
	fmt.Fprintf(w, "Sidereal:    %s   LST %.2f°\n", astro.FormatSiderealTime(t), astro.Rad2Deg(f.LST))
	sid, sol := astro.DayCounts(t)
	fmt.Fprintf(w, "Days:        %.3f sidereal, %.3f solar (+%.1f min)\n", sid, sol, astro.DayDifferenceMinutes(t))
	fmt.Fprintf(w, "Drift:       %s\n", FormatDrift(snap.Drift))
	fmt.Fprintf(w, "Next day:    sidereal in %s, solar in %s\n",
		astro.FormatDuration(astro.TimeToNextSiderealDay(t)), astro.FormatDuration(astro.TimeToNextSolarDay(t)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sun:         alt %+.1f° az %.1f° (%s), %s\n",
		astro.Rad2Deg(f.Sun.Horizontal.Altitude), astro.Rad2Deg(f.Sun.Horizontal.Azimuth),
		Compass(f.Sun.Horizontal.Azimuth), f.Phase)
	fmt.Fprintf(w, "Sun window:  %s\n", formatWindow(astro.SunWindow(snap.Observer, snap.Reference, t), t))
	star := brightestStar()
	fmt.Fprintf(w, "Brightest:   %s, %s\n", star.Name,
		formatWindow(astro.StarWindow(star, snap.Observer, snap.Reference, t), t))
	fmt.Fprintln(w)

	rows := GenerateStarRows(f)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No stars above the horizon")
		return
	}

	fmt.Fprintf(w, "%-12s %7s %7s %-3s %5s\n", "Star", "Alt", "Az", "", "Mag")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %6.1f° %6.1f° %-3s %5.2f\n",
			truncateStr(r.Name, 12), r.Altitude, r.Azimuth, r.Compass, r.Magnitude)
	}
	fmt.Fprintf(w, "\nTotal: %d stars visible\n", len(rows))
}

// brightestStar returns the catalog star with the lowest magnitude.
func brightestStar() astro.Star {
	catalog := astro.Catalog()
	best := catalog[0]
	for _, s := range catalog[1:] {
		if s.Magnitude < best.Magnitude {
			best = s
		}
	}
	return best
}

// FormatDrift renders a drift in seconds as a signed minutes-and-seconds span.
func FormatDrift(d float64) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d + 0.5)
	return fmt.Sprintf("%s%dm %02ds", sign, total/60, total%60)
}

// formatWindow renders rise and set as offsets from now.
func formatWindow(win astro.Window, now float64) string {
	switch {
	case win.AlwaysUp:
		return "up all day"
	case win.NeverUp:
		return "below the horizon all day"
	}
	var parts []string
	if win.HasRise {
		parts = append(parts, "rises in "+astro.FormatDuration(win.Rise-now))
	}
	if win.HasSet {
		parts = append(parts, "sets in "+astro.FormatDuration(win.Set-now))
	}
	parts = append(parts, fmt.Sprintf("peak %.1f°", astro.Rad2Deg(win.MaxAltitude)))
	return strings.Join(parts, ", ")
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
