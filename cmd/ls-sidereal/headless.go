package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-sidereal/internal/logging"
	"github.com/litescript/ls-sidereal/internal/metrics"
	"github.com/litescript/ls-sidereal/internal/report"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
)

const (
	shutdownTimeout = 5 * time.Second
	eventsLimit     = 10 // -events shows this many of the newest events
)

// runHeadless handles all headless modes without starting the TUI. With
// neither -watch nor -metrics-addr it prints once and returns.
func runHeadless(ctx context.Context, stateMgr *state.Manager, frames *sky.Cache, logger *logging.Logger) error {
	advanceDays(stateMgr, days)

	if watchInterval == 0 && metricsAddr == "" {
		return outputOnce(os.Stdout, stateMgr, frames)
	}
	if watchInterval > 0 && watchInterval < minWatch {
		watchInterval = minWatch
	}

	var m *metrics.Metrics
	g, gctx := errgroup.WithContext(ctx)

	if metricsAddr != "" {
		m = metrics.New()
		m.RegisterCache(frames)
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           newMux(m, stateMgr, frames),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("serving metrics on %s", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return simulate(gctx, stateMgr, frames, m, logger)
	})

	return g.Wait()
}

// simulate plays the simulation, ticking at the frame interval and printing
// at the watch interval, until ctx is done.
func simulate(ctx context.Context, stateMgr *state.Manager, frames *sky.Cache, m *metrics.Metrics, logger *logging.Logger) error {
	stateMgr.Play(time.Now())

	ticker := time.NewTicker(stateMgr.FrameInterval())
	defer ticker.Stop()

	var output <-chan time.Time
	if watchInterval > 0 {
		if err := outputOnce(os.Stdout, stateMgr, frames); err != nil {
			return err
		}
		watch := time.NewTicker(watchInterval)
		defer watch.Stop()
		output = watch.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debug("simulation loop shutting down")
			return nil
		case now := <-ticker.C:
			if c := stateMgr.Tick(now); c.Any() {
				logger.Debug("day completions: %d sidereal, %d solar", c.Sidereal, c.Solar)
			}
			if m != nil {
				m.Observe(stateMgr.Snapshot())
			}
		case <-output:
			fmt.Println() // Blank line between outputs
			if err := outputOnce(os.Stdout, stateMgr, frames); err != nil {
				logger.Error("output failed: %v", err)
			}
		}
	}
}

// outputOnce writes every requested headless output for the current state.
// With no output flag it writes the summary.
func outputOnce(w io.Writer, stateMgr *state.Manager, frames *sky.Cache) error {
	snap := stateMgr.Snapshot()
	f := frames.Frame(snap.EffectiveTime, snap.Observer, snap.Reference)

	// Export JSON if requested
	if snapshotPath != "" {
		if err := writeSnapshot(snapshotPath, w, snap, f); err != nil {
			return err
		}
	}

	wantSummary := summaryMode || (snapshotPath == "" && !miniSkyMode && !eventsMode)
	if wantSummary {
		report.WriteSummary(w, snap, f)
	}

	// Mini sky view
	if miniSkyMode {
		fmt.Fprintln(w)
		report.WriteMiniSky(w, f, report.DefaultMiniSkyConfig())
	}

	// Events log
	if eventsMode {
		fmt.Fprintln(w)
		report.WriteEvents(w, stateMgr.RecentEvents(eventsLimit))
	}
	return nil
}

func writeSnapshot(path string, stdout io.Writer, snap state.Snapshot, f sky.Frame) error {
	export := report.ExportSnapshot(snap, f, time.Now().UTC())
	if path == "-" {
		if err := export.WriteJSON(stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer out.Close()
	if err := export.WriteJSON(out); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// newMux serves metrics and read-only views of the running simulation.
func newMux(m *metrics.Metrics, stateMgr *state.Manager, frames *sky.Cache) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	frameFor := func() (state.Snapshot, sky.Frame) {
		snap := stateMgr.Snapshot()
		return snap, frames.Frame(snap.EffectiveTime, snap.Observer, snap.Reference)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		snap, f := frameFor()
		w.Header().Set("Content-Type", "application/json")
		if err := report.ExportSnapshot(snap, f, time.Now().UTC()).WriteJSON(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		snap, f := frameFor()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		report.WriteSummary(w, snap, f)
	})
	mux.HandleFunc("/sky", func(w http.ResponseWriter, r *http.Request) {
		_, f := frameFor()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		report.WriteMiniSky(w, f, report.DefaultMiniSkyConfig())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ls-sidereal: /metrics /snapshot /summary /sky /healthz")
	})

	return m.Middleware(mux)
}
