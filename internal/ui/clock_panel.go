package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/report"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

// Clock panel colors
const (
	colorDay      = "#FFD166" // warm gold
	colorTwilight = "#C77DFF" // lavender
	colorNight    = "#3A4A8C" // deep blue
	colorSidereal = "#8BE9FF" // cyan
	colorSolar    = "#FFD166"
)

// DialWidth is the number of cells in the time-of-day dial.
const DialWidth = 48

// progressWidth is the width of the day progress bars.
const progressWidth = 20

// RenderClockPanel renders the playback state, both clocks, drift and the
// local day dial.
//
//	STEPPED  ▶ 30x  step: sidereal  day 12  animate: off
//	Solar 06:00:00  Sidereal 05:13:12  Drift +47m 12s  Ref: midnight
//	00 ░░░░░░░░░░▓▓█████☉████████▓▓░░░░░ 24  6:00 AM local
//	Sidereal ▕██████░░░░▏ 31%   Solar ▕█████░░░░░▏ 25%
func RenderClockPanel(snap state.Snapshot) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	t := snap.EffectiveTime
	var lines []string

	// Playback line
	play := dimStyle.Render("❚❚ paused")
	if snap.Playing {
		play = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("▶ playing")
	}
	line := labelStyle.Render(strings.ToUpper(snap.Mode.String())) + "  " + play + "  " +
		valueStyle.Render(snap.Speed.String())
	if snap.Mode == timestep.KindStepped {
		animate := "off"
		if snap.AnimateWithinDay {
			animate = "on"
		}
		line += dimStyle.Render("  step: ") + valueStyle.Render(snap.StepMode.String()) +
			dimStyle.Render("  day ") + valueStyle.Render(fmt.Sprintf("%d", snap.DayCount)) +
			dimStyle.Render("  animate: ") + valueStyle.Render(animate)
	}
	lines = append(lines, "  "+line)

	// Clocks
	lines = append(lines, "  "+
		dimStyle.Render("Solar ")+valueStyle.Render(astro.FormatTime(t))+"  "+
		dimStyle.Render("Sidereal ")+valueStyle.Render(astro.FormatSiderealTime(t))+"  "+
		dimStyle.Render("Drift ")+valueStyle.Render(report.FormatDrift(snap.Drift))+"  "+
		dimStyle.Render("Ref: ")+valueStyle.Render(snap.ReferenceName))

	// Local day dial
	lines = append(lines, "  "+RenderDayDial(snap))

	// Day progress
	sid := math.Mod(t, astro.SiderealDaySeconds) / astro.SiderealDaySeconds
	sol := math.Mod(t, astro.SolarDaySeconds) / astro.SolarDaySeconds
	lines = append(lines, "  "+
		dimStyle.Render("Sidereal ")+renderProgressBar(sid, progressWidth, colorSidereal)+
		valueStyle.Render(fmt.Sprintf(" %3.0f%%", sid*100))+"   "+
		dimStyle.Render("Solar ")+renderProgressBar(sol, progressWidth, colorSolar)+
		valueStyle.Render(fmt.Sprintf(" %3.0f%%", sol*100)))

	return strings.Join(lines, "\n")
}

// LocalTimeOfDay is the observer's mean solar time in seconds after
// midnight, read from the Sun's hour angle.
func LocalTimeOfDay(snap state.Snapshot) float64 {
	ha := astro.SolarHourAngle(snap.Earth, snap.Observer.Longitude, snap.Reference.GMST)
	return astro.NormalizeAngle(ha+math.Pi) / (2 * math.Pi) * astro.SolarDaySeconds
}

// RenderDayDial renders one local solar day from midnight to midnight. Each
// cell is shaded by the model Sun's altitude at that hour and the current
// time carries a Sun or Moon marker.
func RenderDayDial(snap state.Snapshot) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	tod := LocalTimeOfDay(snap)
	cur := dialCell(tod)
	phases := dialPhases(snap, tod)

	var b strings.Builder
	b.WriteString(dimStyle.Render("00 "))
	for i, phase := range phases {
		if i == cur {
			marker, color := "☾", "252"
			if phase == astro.PhaseDay {
				marker, color = "☉", "229"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(marker))
			continue
		}
		b.WriteString(renderPhaseCell(phase))
	}
	b.WriteString(dimStyle.Render(" 24  "))
	b.WriteString(valueStyle.Render(astro.FormatTimeOfDay(tod)))
	b.WriteString(dimStyle.Render(" local"))
	return b.String()
}

// dialCell returns the dial cell holding a time of day.
func dialCell(tod float64) int {
	i := int(tod / astro.SolarDaySeconds * DialWidth)
	if i < 0 {
		return 0
	}
	if i >= DialWidth {
		return DialWidth - 1
	}
	return i
}

// dialPhases samples the Sun at the middle of each dial cell, offset from
// the snapshot's local time of day.
func dialPhases(snap state.Snapshot, tod float64) []astro.SkyPhase {
	phases := make([]astro.SkyPhase, DialWidth)
	for i := range phases {
		cellTOD := (float64(i) + 0.5) / DialWidth * astro.SolarDaySeconds
		at := snap.EffectiveTime + cellTOD - tod
		phases[i] = astro.PhaseForAltitude(astro.SunAltitude(at, snap.Observer, snap.Reference))
	}
	return phases
}

func renderPhaseCell(phase astro.SkyPhase) string {
	switch phase {
	case astro.PhaseDay:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorDay)).Render("█")
	case astro.PhaseTwilight:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorTwilight)).Render("▓")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorNight)).Render("░")
	}
}

// renderProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func renderProgressBar(frac float64, width int, color string) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	return "▕" + fill.Render(strings.Repeat("█", filled)) + empty.Render(strings.Repeat("░", width-filled)) + "▏"
}
