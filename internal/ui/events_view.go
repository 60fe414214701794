package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/state"
)

// Styles for the event log
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// EventsModel lists day completions and commands, newest first.
type EventsModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
	lastErr  error
}

// NewEventsModel creates a new event log model.
func NewEventsModel() EventsModel {
	return EventsModel{}
}

// SetSize updates the viewport size.
func (m EventsModel) SetSize(width, height int) EventsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m EventsModel) UpdateData(snapshot state.Snapshot) EventsModel {
	m.snapshot = snapshot
	if n := len(snapshot.Events); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m
}

// SetError sets the last error for display.
func (m EventsModel) SetError(err error) EventsModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m EventsModel) Update(msg tea.Msg) (EventsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		count := len(m.snapshot.Events)

		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < count-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if count > 0 {
				m.cursor = count - 1
			}
		}
	}

	return m, nil
}

// View renders the event log.
func (m EventsModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTotals())
	b.WriteString("\n\n")
	b.WriteString(m.renderEventTable())
	if sel := m.SelectedEvent(); sel != nil {
		b.WriteString("\n")
		b.WriteString(renderEventDetail(*sel))
	}

	return b.String()
}

// renderEventDetail shows the highlighted event in full, untruncated.
func renderEventDetail(e state.Event) string {
	line := fmt.Sprintf("%s at t=%s (%s)", string(e.Type), astro.FormatDuration(e.SimTime),
		e.Timestamp.Format("2006-01-02 15:04:05"))
	if e.Count > 1 {
		line += fmt.Sprintf(" ×%d", e.Count)
	}
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	return titleStyle.Render("Selected") + "\n  " + rowStyle.Render(line)
}

func (m EventsModel) renderTotals() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Day Completions"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-10s %s   %-10s %s   %-10s %s",
		"Sidereal:", countStyle.Render(fmt.Sprintf("%d", m.snapshot.SiderealDays)),
		"Solar:", countStyle.Render(fmt.Sprintf("%d", m.snapshot.SolarDays)),
		"Ticks:", rowStyle.Render(fmt.Sprintf("%d", m.snapshot.Ticks))))
	return b.String()
}

func (m EventsModel) renderEventTable() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Event Log"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-8s %-6s %-12s %-5s %-24s", "Time", "Event", "Sim time", "Count", "Detail")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  No events\n")
		return b.String()
	}

	// Calculate visible rows based on height
	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(events) {
		endIdx = len(events)
	}

	for i := startIdx; i < endIdx; i++ {
		// Newest first
		e := events[len(events)-1-i]

		count := ""
		if e.Count > 0 {
			count = fmt.Sprintf("×%d", e.Count)
		}
		row := fmt.Sprintf("%-8s %-6s %-12s %-5s %-24s",
			e.Timestamp.Format("15:04:05"),
			eventLabel(e.Type),
			astro.FormatDuration(e.SimTime),
			count,
			truncate(e.Detail, 24),
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(events) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d events", startIdx+1, endIdx, len(events)))
	}

	return b.String()
}

// SelectedEvent returns the highlighted event, if any.
func (m EventsModel) SelectedEvent() *state.Event {
	events := m.snapshot.Events
	if m.cursor < 0 || m.cursor >= len(events) {
		return nil
	}
	e := events[len(events)-1-m.cursor]
	return &e
}

// eventLabel is the short table label for an event type.
func eventLabel(t state.EventType) string {
	switch t {
	case state.EventSiderealDay:
		return "★ SID"
	case state.EventSolarDay:
		return "☉ SOL"
	case state.EventStep:
		return "→ STEP"
	case state.EventJump:
		return "» JUMP"
	case state.EventReset:
		return "↺ RSET"
	case state.EventModeChange:
		return "◆ MODE"
	case state.EventLocation:
		return "⌖ LOC"
	default:
		return string(t)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
