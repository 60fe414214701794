package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/state"
)

// WriteEvents writes events oldest first. Callers trim the log, usually
// with state.Manager.RecentEvents.
func WriteEvents(w io.Writer, events []state.Event) {
	fmt.Fprintln(w, "Event Log")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("%s %s  t=%s", e.Timestamp.Format("15:04:05"), formatEventType(e.Type), astro.FormatDuration(e.SimTime))
		if e.Count > 1 {
			line += fmt.Sprintf(" ×%d", e.Count)
		}
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func formatEventType(t state.EventType) string {
	switch t {
	case state.EventSiderealDay:
		return "★SID "
	case state.EventSolarDay:
		return "☉SOL "
	case state.EventStep:
		return "→STEP"
	case state.EventJump:
		return "»JUMP"
	case state.EventReset:
		return "↺RSET"
	case state.EventModeChange:
		return "◆MODE"
	case state.EventLocation:
		return "⌖LOC "
	default:
		return string(t)
	}
}
