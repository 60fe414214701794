// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/config"
	"github.com/litescript/ls-sidereal/internal/logging"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
	"github.com/litescript/ls-sidereal/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrbit ViewMode = iota
	ViewSky
	ViewEvents
)

var viewNames = []string{"[1] Orbit", "[2] Sky", "[3] Events"}

// Time-of-day nudges in stepped mode and jumps in continuous mode, seconds.
const (
	nudgeSmall = 15 * 60
	nudgeLarge = 60 * 60
	jumpSmall  = 60 * 60
	jumpLarge  = astro.SolarDaySeconds
	jumpWeek   = 7 * astro.SolarDaySeconds
)

// compactHeight is the terminal height below which the logo is dropped.
const compactHeight = 40

// Msg types for Bubble Tea
type (
	// TickMsg advances the simulation one frame.
	TickMsg time.Time

	// AnimTickMsg drives the spinner.
	AnimTickMsg time.Time

	// ErrorMsg reports an error to the status bar.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state     *state.Manager
	frames    *sky.Cache
	presets   []config.Preset
	presetIdx int // -1 when the observer is not a preset
	log       *logging.Logger

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	orbitView OrbitViewModel
	skyView   SkyViewModel
	events    EventsModel

	snapshot state.Snapshot
	frame    sky.Frame
}

// New creates a new root UI model. A nil cache or logger gets a default.
func New(stateMgr *state.Manager, frames *sky.Cache, presets []config.Preset, log *logging.Logger) Model {
	if frames == nil {
		frames = sky.NewCache(sky.DefaultCacheSize)
	}
	if log == nil {
		log = logging.Discard()
	}
	if len(presets) == 0 {
		presets = config.DefaultPresets()
	}

	m := Model{
		state:     stateMgr,
		frames:    frames,
		presets:   presets,
		presetIdx: -1,
		log:       log.Named("ui"),
		viewMode:  ViewOrbit,
		orbitView: NewOrbitViewModel(),
		skyView:   NewSkyViewModel(),
		events:    NewEventsModel(),
	}
	m.refresh()
	for i, p := range presets {
		if strings.EqualFold(p.Name, m.snapshot.Observer.Name) {
			m.presetIdx = i
			break
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.snapshot.FrameInterval),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewOrbit
		case "2":
			m.viewMode = ViewSky
		case "3":
			m.viewMode = ViewEvents
		case "tab":
			m.viewMode = (m.viewMode + 1) % ViewMode(len(viewNames))

		default:
			if !m.handleCommand(msg.String()) {
				cmds = append(cmds, m.updateActiveView(msg))
			}
		}
		m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := msg.Height - m.chromeHeight()
		m.orbitView = m.orbitView.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)

	case TickMsg:
		if c := m.state.Tick(time.Time(msg)); c.Any() {
			m.log.Debug("day completions: %d sidereal, %d solar", c.Sidereal, c.Solar)
		}
		m.refresh()
		cmds = append(cmds, tickCmd(m.snapshot.FrameInterval))

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		if !m.snapshot.Options.ReduceMotion {
			m.animTick++
		}

	case ErrorMsg:
		m.log.Error("%v", msg.Error)
		m.statusMsg = "Error: " + msg.Error.Error()
		m.events = m.events.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleCommand applies a global simulation key. It reports whether the key
// was consumed.
func (m *Model) handleCommand(key string) bool {
	mode := m.snapshot.Mode
	now := time.Now()

	switch key {
	case " ", "p":
		if m.state.TogglePlay(now) {
			m.statusMsg = "Playing"
		} else {
			m.statusMsg = "Paused"
		}
	case "+", "=":
		m.statusMsg = "Speed " + m.state.CycleSpeed(true).String()
	case "-", "_":
		m.statusMsg = "Speed " + m.state.CycleSpeed(false).String()
	case "m":
		m.statusMsg = "Mode: " + m.state.ToggleMode().String()
	case "r":
		m.state.Reset()
		m.statusMsg = "Reset"

	case "n":
		if mode != timestep.KindStepped {
			m.statusMsg = "Stepping needs stepped mode (m)"
			break
		}
		m.state.StepForward()
		m.statusMsg = "Stepped one " + m.snapshot.StepMode.String() + " day"
	case "t":
		m.statusMsg = "Step length: " + m.state.ToggleStepMode().String() + " day"
	case "a":
		on := !m.snapshot.AnimateWithinDay
		m.state.SetAnimateWithinDay(on)
		m.statusMsg = fmt.Sprintf("Animate within day: %v", on)

	case "j", "J":
		if mode != timestep.KindContinuous {
			m.statusMsg = "Jumps need continuous mode (m)"
			break
		}
		if key == "j" {
			m.state.JumpToNextSiderealDay()
			m.statusMsg = "Jumped to next sidereal day"
		} else {
			m.state.JumpToNextSolarDay()
			m.statusMsg = "Jumped to next solar day"
		}

	case "w":
		if mode != timestep.KindContinuous {
			m.statusMsg = "Jumps need continuous mode (m)"
			break
		}
		m.state.JumpForward(jumpWeek)
		m.statusMsg = "Jumped forward one week"

	case "left", "right", "shift+left", "shift+right":
		m.nudge(key)

	case "l":
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		p := m.presets[m.presetIdx]
		m.state.SetObserver(p.Observer())
		m.statusMsg = "Location: " + p.Name

	case "L":
		o := m.state.UpdateOptions(func(o *state.Options) { o.ShowLabels = !o.ShowLabels })
		m.statusMsg = fmt.Sprintf("Labels: %v", o.ShowLabels)
	case "g":
		o := m.state.UpdateOptions(func(o *state.Options) { o.ShowGrid = !o.ShowGrid })
		m.statusMsg = fmt.Sprintf("Grid: %v", o.ShowGrid)
	case "h":
		o := m.state.UpdateOptions(func(o *state.Options) { o.HighContrast = !o.HighContrast })
		m.statusMsg = fmt.Sprintf("High contrast: %v", o.HighContrast)
	case "z":
		o := m.state.UpdateOptions(func(o *state.Options) { o.ReduceMotion = !o.ReduceMotion })
		m.statusMsg = fmt.Sprintf("Reduce motion: %v (frame %v)", o.ReduceMotion, m.state.FrameInterval())

	default:
		return false
	}

	m.log.Debug("key %q: %s", key, m.statusMsg)
	return true
}

// nudge moves the time of day in stepped mode, or jumps the continuous
// clock.
func (m *Model) nudge(key string) {
	sign := 1.0
	if strings.HasSuffix(key, "left") {
		sign = -1
	}
	large := strings.HasPrefix(key, "shift+")

	if m.snapshot.Mode == timestep.KindStepped {
		d := float64(nudgeSmall)
		if large {
			d = nudgeLarge
		}
		m.state.AdjustTimeOfDay(sign * d)
		return
	}

	d := float64(jumpSmall)
	if large {
		d = jumpLarge
	}
	if sign > 0 {
		m.state.JumpForward(d)
		return
	}
	m.state.SetTime(m.snapshot.EffectiveTime - d)
}

// refresh pulls a fresh snapshot and pushes it to the sub-models.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.frame = m.frames.Frame(m.snapshot.EffectiveTime, m.snapshot.Observer, m.snapshot.Reference)
	m.orbitView = m.orbitView.UpdateData(m.snapshot)
	m.skyView = m.skyView.UpdateData(m.snapshot, m.frame)
	m.events = m.events.UpdateData(m.snapshot)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrbit:
		m.orbitView, cmd = m.orbitView.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrbit:
		content = m.orbitView.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewEvents:
		content = m.events.View()
	}

	return m.renderFrame(content)
}

// Snapshot returns the snapshot the model last rendered.
func (m Model) Snapshot() state.Snapshot {
	return m.snapshot
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

// chromeHeight is the number of lines around the active view.
func (m Model) chromeHeight() int {
	// tabs, clock panel (4) plus a blank line, footer (2)
	h := 1 + 5 + 2
	if m.height >= compactHeight {
		return h + 10 // logo block
	}
	return h + 1 // one-line title
}

func (m Model) renderHeader() string {
	top := m.renderTitle()
	if m.height >= compactHeight {
		top = m.renderLogo()
	}
	return top + m.renderTabs() + "\n" + RenderClockPanel(m.snapshot) + "\n"
}

func (m Model) renderTitle() string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return "  " + accent.Render("LS-SIDEREAL") + muted.Render(" v"+version.Version) + "\n"
}

func (m Model) renderLogo() string {
	// ASCII art with smooth truecolor gradient
	logo := []string{
		`  ██╗     ███████╗      ███████╗██╗██████╗ ███████╗██████╗ ███████╗ █████╗ ██╗`,
		`  ██║     ██╔════╝      ██╔════╝██║██╔══██╗██╔════╝██╔══██╗██╔════╝██╔══██╗██║`,
		`  ██║     ███████╗█████╗███████╗██║██║  ██║█████╗  ██████╔╝█████╗  ███████║██║`,
		`  ██║     ╚════██║╚════╝╚════██║██║██║  ██║██╔══╝  ██╔══██╗██╔══╝  ██╔══██║██║`,
		`  ███████╗███████║      ███████║██║██████╔╝███████╗██║  ██║███████╗██║  ██║███████╗`,
		`  ╚══════╝╚══════╝      ╚══════╝╚═╝╚═════╝ ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Sidereal vs Solar Day · Earth–Sun Model"))
	b.WriteString("\n")

	copyright := fmt.Sprintf("  (c) 2026 litescript.net | v%s", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightnessFactor := 1.0 - (yRatio * 0.5)

	return fmt.Sprintf("#%02X%02X%02X",
		clampByte(r*brightnessFactor), clampByte(g*brightnessFactor), clampByte(b*brightnessFactor))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range viewNames {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

// spinnerFrames animate the footer while playing.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinner := "•"
	if m.snapshot.Playing && !m.snapshot.Options.ReduceMotion {
		spinner = spinnerFrames[m.animTick%len(spinnerFrames)]
	}
	status := accentStyle.Render(spinner) + dimStyle.Render(" t="+astro.FormatDuration(m.snapshot.EffectiveTime))

	var help string
	switch m.viewMode {
	case ViewOrbit:
		help = "s: star line"
	case ViewEvents:
		help = "↑↓: scroll"
	default:
		help = "L: labels | g: grid | h: contrast"
	}
	if m.snapshot.Mode == timestep.KindStepped {
		help = "space: play | +/-: speed | n: step | t: step length | a: animate | ←/→: time | " + help
	} else {
		help = "space: play | +/-: speed | j/J: next day | ←/→: jump | w: +1 week | " + help
	}
	help += " | m: mode | l: location | r: reset | q: quit"

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
