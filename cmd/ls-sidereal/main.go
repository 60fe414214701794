// Command ls-sidereal is a terminal model of the Earth–Sun system that shows
// why a sidereal day is shorter than a solar day.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/config"
	"github.com/litescript/ls-sidereal/internal/epoch"
	"github.com/litescript/ls-sidereal/internal/logging"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
	"github.com/litescript/ls-sidereal/internal/timestep"
	"github.com/litescript/ls-sidereal/internal/ui"
)

// Simulation flags
var (
	modeFlag       string
	speedFlag      string
	stepFlag       string
	animateFlag    bool
	timeOfDayFlag  string
	locationFlag   string
	latFlag        float64
	lonFlag        float64
	conventionFlag string
	epochFlag      string
	configPath     string
	logLevel       string
	logFile        string
	fps            int
	reduceMotion   bool
)

// CLI flags for headless mode
var (
	summaryMode   bool
	miniSkyMode   bool
	eventsMode    bool
	snapshotPath  string
	days          int
	watchInterval time.Duration
	metricsAddr   string
)

const (
	minWatch = 100 * time.Millisecond
	maxFPS   = 120
)

func main() {
	flag.StringVar(&modeFlag, "mode", "", "Time scheme (continuous, stepped)")
	flag.StringVar(&speedFlag, "speed", "", "Playback speed, e.g. 30 or 100x")
	flag.StringVar(&stepFlag, "step", "", "Stepped day length (solar, sidereal)")
	flag.BoolVar(&animateFlag, "animate-within-day", false, "Stepped mode: sweep the time of day between steps")
	flag.StringVar(&timeOfDayFlag, "time-of-day", "", "Stepped mode: time of day, HH:MM[:SS]")
	flag.StringVar(&locationFlag, "location", "", "Observer preset name (e.g. Tokyo)")
	flag.Float64Var(&latFlag, "lat", 0, "Observer latitude in degrees (overrides -location)")
	flag.Float64Var(&lonFlag, "lon", 0, "Observer longitude in degrees (overrides -location)")
	flag.StringVar(&conventionFlag, "convention", "", "Phase at t=0 (midnight, noon)")
	flag.StringVar(&epochFlag, "epoch", "", "Align t=0 to a real instant (RFC 3339, YYYY-MM-DD or now)")
	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to file (the TUI discards logs otherwise)")
	flag.IntVar(&fps, "fps", 0, "Frame rate, 1-120 (default 30)")
	flag.BoolVar(&reduceMotion, "reduce-motion", false, "Disable decorative animation")

	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII mini sky view")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.IntVar(&days, "days", 0, "Advance N days before output")
	flag.DurationVar(&watchInterval, "watch", 0, "Play and repeat output at interval (e.g., 1s)")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics and JSON snapshots (e.g., :9090)")
	flag.Parse()

	file, err := loadConfig(configPath)
	if err != nil {
		fatal(err)
	}

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	cfg, presets, err := buildConfig(file, setFlags, time.Now())
	if err != nil {
		fatal(err)
	}

	// Set up logging
	level := logLevel
	if !setFlags["log-level"] && file != nil && file.LogLevel != "" {
		level = file.LogLevel
	}
	logger := logging.New(logging.ParseLevel(level))
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(fmt.Errorf("open log file: %w", err))
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	stateMgr, err := state.NewManager(cfg)
	if err != nil {
		fatal(err)
	}
	frames := sky.NewCache(sky.DefaultCacheSize)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Headless mode: no TUI
	headless := summaryMode || snapshotPath != "" || miniSkyMode || eventsMode || watchInterval > 0 || metricsAddr != ""
	if headless {
		if err := runHeadless(ctx, stateMgr, frames, logger.Named("headless")); err != nil {
			fatal(err)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal(fmt.Errorf("stdout is not a terminal; use -summary, -mini-sky or -snapshot-path"))
	}
	if logFile == "" {
		logger = logging.Discard()
	}
	advanceDays(stateMgr, days)

	model := ui.New(stateMgr, frames, presets, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("starting TUI: %s mode at %s", cfg.Mode, cfg.Observer.Name)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadConfig reads the configuration file. An empty path means none.
func loadConfig(path string) (*config.File, error) {
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// buildConfig layers the defaults, the configuration file and the flags the
// user set, in that order.
func buildConfig(file *config.File, set map[string]bool, now time.Time) (state.Config, []config.Preset, error) {
	cfg := state.DefaultConfig()
	if file != nil {
		if err := file.Apply(&cfg, now); err != nil {
			return cfg, nil, err
		}
	}
	presets := file.AllPresets()

	if set["mode"] {
		k, err := timestep.ParseKind(modeFlag)
		if err != nil {
			return cfg, nil, err
		}
		if k != cfg.Mode && !set["speed"] {
			// A speed from the file belongs to the other scheme.
			cfg.Speed = 0
		}
		cfg.Mode = k
	}
	if set["speed"] {
		s, err := timestep.ParseSpeed(speedFlag)
		if err != nil {
			return cfg, nil, err
		}
		if err := timestep.ValidateSpeed(cfg.Mode, s); err != nil {
			return cfg, nil, fmt.Errorf("%s mode: %w", cfg.Mode, err)
		}
		cfg.Speed = s
	}
	if set["step"] {
		sm, err := timestep.ParseStepMode(stepFlag)
		if err != nil {
			return cfg, nil, err
		}
		cfg.StepMode = sm
	}
	if set["animate-within-day"] {
		cfg.AnimateWithinDay = animateFlag
	}
	if set["time-of-day"] {
		tod, err := config.ParseTimeOfDay(timeOfDayFlag)
		if err != nil {
			return cfg, nil, err
		}
		cfg.TimeOfDay = &tod
	}

	if set["location"] {
		p, err := config.FindPreset(presets, locationFlag)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Observer = p.Observer()
	}
	if set["lat"] || set["lon"] {
		if latFlag < -90 || latFlag > 90 {
			return cfg, nil, fmt.Errorf("latitude %v outside [-90, 90]", latFlag)
		}
		if lonFlag < -180 || lonFlag > 180 {
			return cfg, nil, fmt.Errorf("longitude %v outside [-180, 180]", lonFlag)
		}
		cfg.Observer = astro.ObserverFromDegrees(fmt.Sprintf("%.2f°, %.2f°", latFlag, lonFlag), latFlag, lonFlag)
	}

	if set["convention"] && set["epoch"] {
		return cfg, nil, fmt.Errorf("-convention and -epoch are mutually exclusive")
	}
	if set["convention"] {
		c, ok := astro.ParseConvention(conventionFlag)
		if !ok {
			return cfg, nil, fmt.Errorf("unknown convention %q (want midnight or noon)", conventionFlag)
		}
		cfg.UseConvention(c)
	}
	if set["epoch"] {
		at, err := epoch.Parse(epochFlag, now)
		if err != nil {
			return cfg, nil, fmt.Errorf("epoch %q: %w", epochFlag, err)
		}
		cfg.UseEpoch(epoch.New(at))
	}

	if set["fps"] {
		if fps < 1 || fps > maxFPS {
			return cfg, nil, fmt.Errorf("fps %d outside [1, %d]", fps, maxFPS)
		}
		cfg.FrameInterval = time.Second / time.Duration(fps)
	}
	if reduceMotion {
		cfg.Options.ReduceMotion = true
	}
	return cfg, presets, nil
}

// advanceDays moves the simulation n days ahead: n steps in stepped mode,
// n solar days in continuous mode.
func advanceDays(mgr *state.Manager, n int) {
	if n <= 0 {
		return
	}
	if mgr.Mode() == timestep.KindStepped {
		for i := 0; i < n; i++ {
			mgr.StepForward()
		}
		return
	}
	mgr.JumpForward(float64(n) * astro.SolarDaySeconds)
}
