package astro

import (
	"fmt"
	"math"
)

// FormatTime renders simulation seconds as HH:MM:SS of a solar day.
func FormatTime(seconds float64) string {
	total := int64(math.Floor(seconds))
	h := (total / 3600) % 24
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatSiderealTime renders seconds as sidereal HH:MM:SS, wrapping at 24
// sidereal hours.
func FormatSiderealTime(seconds float64) string {
	hours := seconds / SiderealDaySeconds * 24
	whole, frac := math.Modf(hours)
	mins := frac * 60
	m, mfrac := math.Modf(mins)
	s := math.Floor(mfrac * 60)
	return fmt.Sprintf("%02d:%02d:%02d", int64(whole)%24, int64(m), int64(s))
}

// FormatDuration renders a simulation span with its two largest units.
func FormatDuration(seconds float64) string {
	total := int64(math.Floor(seconds))
	days := total / SolarDaySeconds
	hours := (total % SolarDaySeconds) / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatTimeOfDay renders seconds since midnight on a 12-hour clock.
func FormatTimeOfDay(seconds float64) string {
	totalMinutes := int64(math.Floor(seconds / 60))
	hours := (totalMinutes / 60) % 24
	minutes := totalMinutes % 60

	ampm := "AM"
	if hours >= 12 {
		ampm = "PM"
	}
	hours %= 12
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d %s", hours, minutes, ampm)
}

// DialAngle is the rotation of the day/night dial for a time of day. Noon
// is 0 (Sun at the top) and midnight is π.
func DialAngle(timeOfDay float64) float64 {
	return math.Pi - timeOfDay/SolarDaySeconds*twoPi
}

// TimeOfDayFromDialAngle inverts a pointer angle, measured clockwise from
// the top, into seconds since midnight in [0, 86400).
func TimeOfDayFromDialAngle(angle float64) float64 {
	t := math.Mod(angle/twoPi*SolarDaySeconds+43200, SolarDaySeconds)
	if t < 0 {
		t += SolarDaySeconds
	}
	return t
}
