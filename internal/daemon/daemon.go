package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// Trigger reasons reported in logs and status.
const (
	TriggerSchedule = "schedule"
	TriggerConfig   = "config"
	TriggerPending  = "pending"
	TriggerManual   = "manual"
)

const shutdownTimeout = 5 * time.Second

// RunFunc performs one publish run against cfg.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// Status is a snapshot of the daemon's run history.
type Status struct {
	Running      bool      `json:"running"`
	Runs         int       `json:"runs"`
	LastTrigger  string    `json:"last_trigger,omitempty"`
	LastStarted  time.Time `json:"last_started,omitzero"`
	LastFinished time.Time `json:"last_finished,omitzero"`
	LastError    string    `json:"last_error,omitempty"`
}

// Daemon repeats publish runs on an interval and after configuration changes.
// At most one run is in flight; requests arriving during a run collapse into
// a single follow-up run.
type Daemon struct {
	configPath string
	run        RunFunc
	registry   *prom.Registry
	debounce   time.Duration

	mu        sync.RWMutex
	cfg       *config.Config
	scheduler *Scheduler
	runCtx    context.Context
	status    Status

	runMu   sync.Mutex
	pending atomic.Bool
}

// New creates a daemon. An empty configPath disables config watching.
func New(configPath string, cfg *config.Config, run RunFunc) *Daemon {
	return &Daemon{
		configPath: configPath,
		cfg:        cfg,
		run:        run,
		debounce:   defaultDebounce,
	}
}

// WithRegistry exposes reg on /metrics when a listen address is configured.
func (d *Daemon) WithRegistry(reg *prom.Registry) *Daemon {
	d.registry = reg
	return d
}

// WithDebounce overrides the config watcher debounce.
func (d *Daemon) WithDebounce(debounce time.Duration) *Daemon {
	d.debounce = debounce
	return d
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Status returns a copy of the current run status.
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Run schedules publish runs until ctx is canceled. It returns once the
// in-flight run, if any, has finished.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.Config()

	sched, err := NewScheduler()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.scheduler = sched
	d.runCtx = ctx
	d.mu.Unlock()

	if err := sched.SchedulePeriodic(cfg.Daemon.Interval, true, d.scheduledTask(ctx)); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	if cfg.Daemon.WatchConfig && d.configPath != "" {
		watcher, err := NewConfigWatcher(d.configPath, d.ReloadConfig)
		if err != nil {
			return err
		}
		watcher.WithDebounce(d.debounce)
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return err
		}
		defer watcher.Stop()
	}

	if cfg.Metrics.Listen != "" {
		srv, err := d.serveHTTP(cfg.Metrics.Listen)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("HTTP server shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Daemon started", slog.Duration("interval", cfg.Daemon.Interval))
	<-ctx.Done()
	slog.Info("Daemon stopping")

	// wait for the in-flight run
	d.runMu.Lock()
	defer d.runMu.Unlock()
	return nil
}

// ReloadConfig swaps in cfg, reschedules on an interval change and starts a run.
func (d *Daemon) ReloadConfig(ctx context.Context, cfg *config.Config) error {
	d.mu.Lock()
	prev := d.cfg
	d.cfg = cfg
	sched := d.scheduler
	runCtx := d.runCtx
	d.mu.Unlock()

	if runCtx == nil {
		runCtx = ctx
	}
	if sched != nil && (prev == nil || prev.Daemon.Interval != cfg.Daemon.Interval) {
		if err := sched.SchedulePeriodic(cfg.Daemon.Interval, false, d.scheduledTask(runCtx)); err != nil {
			return err
		}
	}

	d.Trigger(runCtx, TriggerConfig)
	return nil
}

// Trigger runs a publish now unless one is already running, in which case a
// single follow-up run is queued. It reports whether this call ran anything.
func (d *Daemon) Trigger(ctx context.Context, reason string) bool {
	ran := false
	for {
		if !d.runMu.TryLock() {
			d.pending.Store(true)
			// the holder may have finished between the two calls
			if !d.runMu.TryLock() {
				slog.Debug("Publish run already in progress, queued follow-up", slog.String("trigger", reason))
				return ran
			}
		}
		d.pending.Store(false)
		d.runOnce(ctx, reason)
		d.runMu.Unlock()
		ran = true

		if ctx.Err() != nil || !d.pending.Load() {
			return ran
		}
		reason = TriggerPending
	}
}

func (d *Daemon) scheduledTask(ctx context.Context) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		d.Trigger(ctx, TriggerSchedule)
	}
}

func (d *Daemon) runOnce(ctx context.Context, reason string) {
	cfg := d.Config()
	started := time.Now()

	d.mu.Lock()
	d.status.Running = true
	d.status.LastTrigger = reason
	d.status.LastStarted = started
	d.mu.Unlock()

	slog.Info("Publish run starting", slog.String("trigger", reason))
	err := d.run(ctx, cfg)
	elapsed := time.Since(started)

	d.mu.Lock()
	d.status.Running = false
	d.status.Runs++
	d.status.LastFinished = time.Now()
	d.status.LastError = ""
	if err != nil {
		d.status.LastError = err.Error()
	}
	d.mu.Unlock()

	if err != nil {
		slog.Error("Publish run failed", slog.String("trigger", reason),
			logfields.DurationMS(float64(elapsed.Milliseconds())), logfields.Error(err))
		return
	}
	slog.Info("Publish run finished", slog.String("trigger", reason),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
}

func (d *Daemon) serveHTTP(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", logfields.Error(err))
		}
	}()
	slog.Info("Serving daemon endpoints", logfields.URL("http://"+ln.Addr().String()))
	return srv, nil
}
