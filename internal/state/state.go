// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/epoch"
	"github.com/litescript/ls-sidereal/internal/timestep"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSiderealDay EventType = "SIDEREAL_DAY"
	EventSolarDay    EventType = "SOLAR_DAY"
	EventStep        EventType = "STEP"
	EventJump        EventType = "JUMP"
	EventReset       EventType = "RESET"
	EventModeChange  EventType = "MODE_CHANGE"
	EventLocation    EventType = "LOCATION"
)

// Event records a day completion or a user command.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SimTime   float64   `json:"sim_time"`
	Count     int       `json:"count,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Options are the visual toggles shared by every view.
type Options struct {
	ShowLabels   bool `yaml:"show_labels"`
	ShowGrid     bool `yaml:"show_grid"`
	HighContrast bool `yaml:"high_contrast"`
	ReduceMotion bool `yaml:"reduce_motion"`
}

// DefaultOptions returns labels and grid on, everything else off.
func DefaultOptions() Options {
	return Options{ShowLabels: true, ShowGrid: true}
}

// Config holds configuration for the state manager.
type Config struct {
	Mode             timestep.Kind
	Speed            timestep.Speed // zero keeps the scheme default
	StepMode         timestep.StepMode
	AnimateWithinDay bool
	TimeOfDay        *float64 // stepped scheme, seconds after midnight; nil keeps the default
	Observer         astro.Observer

	// Reference overrides the t = 0 phase. Nil picks DefaultConvention for
	// the active mode.
	Reference     *astro.Reference
	ReferenceName string

	// Epoch, when set, also maps simulation time to calendar time. Set it
	// with UseEpoch so the reference matches.
	Epoch *epoch.Epoch

	Options       Options
	MaxEvents     int
	FrameInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Mode:          timestep.KindStepped,
		Observer:      astro.NewObserver("Equator", 0, 0),
		Options:       DefaultOptions(),
		MaxEvents:     50,                    // Last 50 events
		FrameInterval: 33 * time.Millisecond, // ~30 fps
	}
}

// ReducedMotionInterval is the coarsest frame interval used while reduce
// motion is on. Slower configured rates are left alone.
const ReducedMotionInterval = 100 * time.Millisecond

// UseEpoch aligns t = 0 with e.
func (c *Config) UseEpoch(e epoch.Epoch) {
	ref := e.Reference
	c.Reference = &ref
	c.ReferenceName = e.Name()
	c.Epoch = &e
}

// UseConvention phases t = 0 by a fixed convention, dropping any epoch.
func (c *Config) UseConvention(conv astro.Convention) {
	ref := conv.Reference()
	c.Reference = &ref
	c.ReferenceName = conv.String()
	c.Epoch = nil
}

// DefaultConvention is the t = 0 phase each mode uses unless overridden.
// The stepped scheme's time of day counts from midnight; the continuous
// clock starts with the Sun on the Greenwich meridian.
func DefaultConvention(k timestep.Kind) astro.Convention {
	if k == timestep.KindStepped {
		return astro.MidnightZero
	}
	return astro.NoonZero
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Time sources; exactly one is active.
	continuous *timestep.Continuous
	stepped    *timestep.Stepped
	active     timestep.Kind

	observer      astro.Observer
	reference     *astro.Reference
	referenceName string
	epoch         *epoch.Epoch
	options       Options

	// Counters
	ticks        uint64
	siderealDays int64
	solarDays    int64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	frameInterval time.Duration
	clock         func() time.Time
}

// NewManager creates a new state manager. It fails if cfg.Speed is not
// offered by cfg.Mode.
func NewManager(cfg Config) (*Manager, error) {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	m := &Manager{
		continuous:    timestep.NewContinuous(),
		stepped:       timestep.NewStepped(),
		active:        cfg.Mode,
		observer:      cfg.Observer,
		reference:     cfg.Reference,
		referenceName: cfg.ReferenceName,
		epoch:         cfg.Epoch,
		options:       cfg.Options,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		frameInterval: cfg.FrameInterval,
		clock:         time.Now,
	}
	m.stepped.SetStepMode(cfg.StepMode)
	m.stepped.SetAnimateWithinDay(cfg.AnimateWithinDay)
	if cfg.TimeOfDay != nil {
		m.stepped.SetTimeOfDay(*cfg.TimeOfDay)
	}

	if cfg.Speed != 0 {
		if err := m.source().SetSpeed(cfg.Speed); err != nil {
			return nil, fmt.Errorf("%s mode: %w", cfg.Mode, err)
		}
	}
	return m, nil
}

// SetClock replaces the wall clock used to timestamp events raised by
// commands that take no time argument.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = now
}

func (m *Manager) source() timestep.TimeSource {
	if m.active == timestep.KindContinuous {
		return m.continuous
	}
	return m.stepped
}

// Tick advances the active source to now and logs any day completions.
func (m *Manager) Tick(now time.Time) timestep.Crossings {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	c := m.source().Tick(now)
	m.recordCrossings(c, now)
	return c
}

// recordCrossings updates completion counters and logs events.
func (m *Manager) recordCrossings(c timestep.Crossings, now time.Time) {
	t := m.source().EffectiveTime()
	if c.Sidereal > 0 {
		m.siderealDays += int64(c.Sidereal)
		m.addEvent(Event{Type: EventSiderealDay, Timestamp: now, SimTime: t, Count: c.Sidereal})
	}
	if c.Solar > 0 {
		m.solarDays += int64(c.Solar)
		m.addEvent(Event{Type: EventSolarDay, Timestamp: now, SimTime: t, Count: c.Solar})
	}
}

// Play starts playback of the active source.
func (m *Manager) Play(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source().Play(now)
}

// Pause stops playback of the active source.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source().Pause()
}

// TogglePlay plays when paused and pauses when playing. It returns the new
// playing state.
func (m *Manager) TogglePlay(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.source()
	if src.Playing() {
		src.Pause()
		return false
	}
	src.Play(now)
	return true
}

// Reset returns the active source to its initial state, paused.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.source().Reset()
	m.siderealDays = 0
	m.solarDays = 0
	m.addEvent(Event{Type: EventReset, Timestamp: m.clock(), SimTime: m.source().EffectiveTime()})
}

// SetSpeed sets the active source's speed.
func (m *Manager) SetSpeed(s timestep.Speed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source().SetSpeed(s)
}

// CycleSpeed moves to the next (or previous) offered speed and returns it.
func (m *Manager) CycleSpeed(up bool) timestep.Speed {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.source()
	next := timestep.PrevSpeed(src.Speed(), src.Speeds())
	if up {
		next = timestep.NextSpeed(src.Speed(), src.Speeds())
	}
	// next comes from the offered set, so this cannot fail.
	_ = src.SetSpeed(next)
	return next
}

// SetMode switches the active time source. The inactive source keeps its
// state and is paused.
func (m *Manager) SetMode(k timestep.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if k == m.active {
		return
	}
	m.source().Pause()
	m.active = k
	m.addEvent(Event{Type: EventModeChange, Timestamp: m.clock(), SimTime: m.source().EffectiveTime(), Detail: k.String()})
}

// ToggleMode switches between continuous and stepped and returns the new mode.
func (m *Manager) ToggleMode() timestep.Kind {
	next := timestep.KindContinuous
	if m.Mode() == timestep.KindContinuous {
		next = timestep.KindStepped
	}
	m.SetMode(next)
	return next
}

// Mode returns the active scheme.
func (m *Manager) Mode() timestep.Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// StepForward advances the stepped source one day and pauses it. It is a
// no-op in continuous mode.
func (m *Manager) StepForward() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != timestep.KindStepped {
		return
	}
	now := m.clock()
	c := m.stepped.StepForward()
	m.addEvent(Event{Type: EventStep, Timestamp: now, SimTime: m.stepped.EffectiveTime(), Count: 1, Detail: m.stepped.StepMode().String()})
	m.recordCrossings(c, now)
}

// SetStepMode sets the stepped source's day length.
func (m *Manager) SetStepMode(s timestep.StepMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepped.SetStepMode(s)
}

// ToggleStepMode flips between solar and sidereal steps.
func (m *Manager) ToggleStepMode() timestep.StepMode {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := timestep.StepSidereal
	if m.stepped.StepMode() == timestep.StepSidereal {
		next = timestep.StepSolar
	}
	m.stepped.SetStepMode(next)
	return next
}

// SetAnimateWithinDay toggles smooth within-day animation in stepped mode.
func (m *Manager) SetAnimateWithinDay(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepped.SetAnimateWithinDay(on)
}

// SetTimeOfDay sets the stepped source's time of day, clamped to [0, 86400].
func (m *Manager) SetTimeOfDay(sec float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepped.SetTimeOfDay(sec)
}

// AdjustTimeOfDay moves the time of day by delta seconds, wrapping around
// midnight.
func (m *Manager) AdjustTimeOfDay(delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tod := m.stepped.TimeOfDay() + delta
	for tod < 0 {
		tod += astro.SolarDaySeconds
	}
	for tod >= astro.SolarDaySeconds {
		tod -= astro.SolarDaySeconds
	}
	m.stepped.SetTimeOfDay(tod)
}

// SetTime moves the continuous clock, clamped to t >= 0.
func (m *Manager) SetTime(t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.continuous.SetTime(t)
}

// JumpForward advances the continuous clock by d seconds.
func (m *Manager) JumpForward(d float64) {
	m.jump(func() timestep.Crossings { return m.continuous.JumpForward(d) }, "+"+astro.FormatDuration(d))
}

// JumpToNextSiderealDay advances the continuous clock to the next sidereal
// day boundary.
func (m *Manager) JumpToNextSiderealDay() {
	m.jump(m.continuous.JumpToNextSiderealDay, "next sidereal day")
}

// JumpToNextSolarDay advances the continuous clock to the next solar day
// boundary.
func (m *Manager) JumpToNextSolarDay() {
	m.jump(m.continuous.JumpToNextSolarDay, "next solar day")
}

func (m *Manager) jump(fn func() timestep.Crossings, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != timestep.KindContinuous {
		return
	}
	now := m.clock()
	c := fn()
	m.addEvent(Event{Type: EventJump, Timestamp: now, SimTime: m.continuous.EffectiveTime(), Detail: detail})
	m.recordCrossings(c, now)
}

// SetObserver replaces the observer location.
func (m *Manager) SetObserver(o astro.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observer = o
	m.addEvent(Event{Type: EventLocation, Timestamp: m.clock(), SimTime: m.source().EffectiveTime(), Detail: o.Name})
}

// SetReference overrides the t = 0 phase; nil restores the mode default.
// Any calendar epoch is dropped.
func (m *Manager) SetReference(ref *astro.Reference, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch = nil
	m.reference = ref
	m.referenceName = name
}

// referenceLocked returns the effective reference and its display name.
func (m *Manager) referenceLocked() (astro.Reference, string) {
	if m.reference != nil {
		return *m.reference, m.referenceName
	}
	conv := DefaultConvention(m.active)
	return conv.Reference(), conv.String()
}

// UpdateOptions applies fn to the visual options under the lock.
func (m *Manager) UpdateOptions(fn func(*Options)) Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.options)
	return m.options
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Mode          timestep.Kind
	EffectiveTime float64
	Playing       bool
	Speed         timestep.Speed
	Speeds        []timestep.Speed

	// Stepped scheme fields; kept current even in continuous mode.
	DayCount         int64
	Accumulator      float64
	TimeOfDay        float64
	StepMode         timestep.StepMode
	AnimateWithinDay bool

	Observer      astro.Observer
	Reference     astro.Reference
	ReferenceName string
	Calendar      time.Time // zero unless an epoch is set
	Options       Options

	Earth astro.EarthState
	Drift float64 // seconds, see Manager.Snapshot

	Ticks        uint64
	SiderealDays int64
	SolarDays    int64
	Events       []Event

	FrameInterval time.Duration
}

// Snapshot returns a consistent snapshot of current state.
//
// Drift is the exact stepped drift (days × 236 s) in stepped mode and the
// continuous drift t − (t/86164)·86400 in continuous mode.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.source()
	t := src.EffectiveTime()
	ref, refName := m.referenceLocked()

	drift := astro.ContinuousDrift(t)
	if m.active == timestep.KindStepped {
		drift = float64(m.stepped.Drift())
	}

	var calendar time.Time
	if m.epoch != nil {
		calendar = m.epoch.At(t)
	}

	speeds := make([]timestep.Speed, len(src.Speeds()))
	copy(speeds, src.Speeds())

	return Snapshot{
		Mode:             m.active,
		EffectiveTime:    t,
		Playing:          src.Playing(),
		Speed:            src.Speed(),
		Speeds:           speeds,
		DayCount:         m.stepped.DayCount(),
		Accumulator:      m.stepped.Accumulator(),
		TimeOfDay:        m.stepped.TimeOfDay(),
		StepMode:         m.stepped.StepMode(),
		AnimateWithinDay: m.stepped.AnimateWithinDay(),
		Observer:         m.observer,
		Reference:        ref,
		ReferenceName:    refName,
		Calendar:         calendar,
		Options:          m.options,
		Earth:            ref.EarthStateAt(t),
		Drift:            drift,
		Ticks:            m.ticks,
		SiderealDays:     m.siderealDays,
		SolarDays:        m.solarDays,
		Events:           m.getEventsOrdered(),
		FrameInterval:    m.frameIntervalLocked(),
	}
}

// GMST returns the Greenwich sidereal angle for the snapshot.
func (s Snapshot) GMST() float64 {
	return s.Reference.GMSTAt(s.EffectiveTime)
}

// LST returns the observer's local sidereal angle for the snapshot.
func (s Snapshot) LST() float64 {
	return astro.CalculateLST(s.GMST(), s.Observer.Longitude)
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// FrameInterval returns the interval between simulation ticks. Reduce
// motion coarsens it to ReducedMotionInterval.
func (m *Manager) FrameInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frameIntervalLocked()
}

func (m *Manager) frameIntervalLocked() time.Duration {
	if m.options.ReduceMotion && m.frameInterval < ReducedMotionInterval {
		return ReducedMotionInterval
	}
	return m.frameInterval
}
