package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-sidereal/internal/config"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

var t0 = time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) Model {
	t.Helper()
	mgr, err := state.NewManager(state.DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	mgr.SetClock(func() time.Time { return t0 })

	m := New(mgr, nil, config.DefaultPresets(), nil)
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 50})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SpaceTogglesPlay(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key(" "))
	if !m.Snapshot().Playing {
		t.Fatal("space should start playback")
	}
	m = send(m, key(" "))
	if m.Snapshot().Playing {
		t.Error("second space should pause")
	}
}

func TestModel_ModeKey(t *testing.T) {
	m := newTestModel(t)
	if m.Snapshot().Mode != timestep.KindStepped {
		t.Fatalf("initial mode = %v, want stepped", m.Snapshot().Mode)
	}

	m = send(m, key("m"))
	if m.Snapshot().Mode != timestep.KindContinuous {
		t.Errorf("mode after m = %v, want continuous", m.Snapshot().Mode)
	}
	if !strings.Contains(m.statusMsg, "continuous") {
		t.Errorf("statusMsg = %q, want mode name", m.statusMsg)
	}
}

func TestModel_ViewKeys(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		key  string
		want ViewMode
	}{
		{"2", ViewSky},
		{"3", ViewEvents},
		{"1", ViewOrbit},
		{"tab", ViewSky},
	}
	for _, tt := range tests {
		m = send(m, key(tt.key))
		if m.ViewMode() != tt.want {
			t.Errorf("after %q view = %v, want %v", tt.key, m.ViewMode(), tt.want)
		}
	}
}

func TestModel_LocationCycles(t *testing.T) {
	m := newTestModel(t)
	presets := config.DefaultPresets()

	// Default observer is the Equator preset; the next one follows it.
	m = send(m, key("l"))
	if got := m.Snapshot().Observer.Name; got != "North Pole" {
		t.Errorf("observer = %q, want North Pole", got)
	}
	m = send(m, key("l"))
	if got := m.Snapshot().Observer.Name; got != presets[0].Name {
		t.Errorf("observer = %q, want %q after wrapping", got, presets[0].Name)
	}

	events := m.Snapshot().Events
	if len(events) == 0 || events[len(events)-1].Type != state.EventLocation {
		t.Errorf("last event should be a location change, got %+v", events)
	}
}

func TestModel_TickCountsTicks(t *testing.T) {
	m := newTestModel(t)
	before := m.Snapshot().Ticks

	m = send(m, TickMsg(t0))
	m = send(m, TickMsg(t0.Add(time.Second)))
	if got := m.Snapshot().Ticks; got != before+2 {
		t.Errorf("Ticks = %d, want %d", got, before+2)
	}
}

func TestModel_StepNeedsSteppedMode(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("n"))
	if got := m.Snapshot().DayCount; got != 1 {
		t.Errorf("DayCount after step = %d, want 1", got)
	}

	m = send(m, key("m"))
	m = send(m, key("n"))
	if !strings.Contains(m.statusMsg, "stepped mode") {
		t.Errorf("statusMsg = %q, want stepped mode hint", m.statusMsg)
	}
}

func TestModel_ArrowsNudgeTimeOfDay(t *testing.T) {
	m := newTestModel(t)
	start := m.Snapshot().TimeOfDay

	m = send(m, key("right"))
	if got := m.Snapshot().TimeOfDay; got != start+nudgeSmall {
		t.Errorf("TimeOfDay after right = %v, want %v", got, start+nudgeSmall)
	}
	m = send(m, key("shift+right"))
	if got := m.Snapshot().TimeOfDay; got != start+nudgeSmall+nudgeLarge {
		t.Errorf("TimeOfDay after shift+right = %v, want %v", got, start+nudgeSmall+nudgeLarge)
	}
}

func TestModel_ArrowsJumpInContinuousMode(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("m"))
	start := m.Snapshot().EffectiveTime

	m = send(m, key("right"))
	if got := m.Snapshot().EffectiveTime; got != start+jumpSmall {
		t.Errorf("EffectiveTime after right = %v, want %v", got, start+jumpSmall)
	}
	m = send(m, key("left"))
	if got := m.Snapshot().EffectiveTime; got != start {
		t.Errorf("EffectiveTime after left = %v, want %v", got, start)
	}
}

func TestModel_OptionToggles(t *testing.T) {
	m := newTestModel(t)
	opts := m.Snapshot().Options

	m = send(m, key("g"))
	m = send(m, key("L"))
	m = send(m, key("h"))
	m = send(m, key("z"))

	got := m.Snapshot().Options
	if got.ShowGrid == opts.ShowGrid {
		t.Error("g should toggle the grid")
	}
	if got.ShowLabels == opts.ShowLabels {
		t.Error("L should toggle labels")
	}
	if got.HighContrast == opts.HighContrast {
		t.Error("h should toggle high contrast")
	}
	if got.ReduceMotion == opts.ReduceMotion {
		t.Error("z should toggle reduce motion")
	}
}

func TestModel_ReduceMotionFreezesSpinner(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("z"))

	m = send(m, AnimTickMsg(t0))
	if m.animTick != 0 {
		t.Errorf("animTick = %d, want 0 with reduce motion", m.animTick)
	}
}

func TestModel_ReduceMotionCoarsensTick(t *testing.T) {
	m := newTestModel(t)
	base := m.Snapshot().FrameInterval

	m = send(m, key("z"))
	if got := m.Snapshot().FrameInterval; got != state.ReducedMotionInterval {
		t.Errorf("FrameInterval with reduce motion = %v, want %v", got, state.ReducedMotionInterval)
	}
	m = send(m, key("z"))
	if got := m.Snapshot().FrameInterval; got != base {
		t.Errorf("FrameInterval after second z = %v, want %v", got, base)
	}
}

func TestModel_WeekJump(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("w"))
	if !strings.Contains(m.statusMsg, "continuous mode") {
		t.Errorf("statusMsg = %q, want continuous mode hint", m.statusMsg)
	}

	m = send(m, key("m"))
	start := m.Snapshot().EffectiveTime
	m = send(m, key("w"))
	if got := m.Snapshot().EffectiveTime; got != start+jumpWeek {
		t.Errorf("EffectiveTime after w = %v, want %v", got, start+jumpWeek)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{"[1] Orbit", "[2] Sky", "[3] Events", "Sidereal", "Drift", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	mgr, err := state.NewManager(state.DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m := New(mgr, nil, nil, nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	m := newTestModel(t)
	m = send(m, ErrorMsg{Error: errors.New("disk full")})

	if !strings.Contains(m.statusMsg, "disk full") {
		t.Errorf("statusMsg = %q, want error text", m.statusMsg)
	}
	m = send(m, key("3"))
	if !strings.Contains(m.View(), "Error: disk full") {
		t.Error("events view should show the error")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 0, 10, 6); got != "#3B82F6" {
		t.Errorf("gradientColor(0, 0) = %q, want #3B82F6", got)
	}
	top := gradientColor(5, 0, 10, 6)
	bottom := gradientColor(5, 5, 10, 6)
	if top == bottom {
		t.Error("bottom row should be dimmer than the top row")
	}
}
