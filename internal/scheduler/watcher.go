package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/wslwatch/internal/display"
	"github.com/hamed0406/wslwatch/internal/domain"
	"github.com/hamed0406/wslwatch/internal/metrics"
	"github.com/hamed0406/wslwatch/internal/probe"
)

// Labels renders the widget texts.
type Labels struct {
	Name      string // e.g. "Nginx"
	Subsystem string // e.g. "WSL"
}

func (l Labels) Checking() string   { return fmt.Sprintf("Checking %s status...", l.Name) }
func (l Labels) Running() string    { return fmt.Sprintf("%s is running ✅", l.Name) }
func (l Labels) NotRunning() string { return fmt.Sprintf("%s is NOT running ❌", l.Name) }
func (l Labels) Failed(detail string) string {
	return "Error: " + detail
}
func (l Labels) Waiting() string { return fmt.Sprintf("Waiting for first %s request...", l.Subsystem) }
func (l Labels) Elapsed(seconds int64) string {
	return fmt.Sprintf("Last %s request: %d seconds ago", l.Subsystem, seconds)
}

// Observer sees every finished check, on the loop goroutine.
type Observer interface {
	Observe(ctx context.Context, res probe.CheckResult)
}

// Watcher owns the widget state. Poll and Tick must only run on the Loop.
type Watcher struct {
	Logger        *zap.Logger
	Checker       probe.Checker
	Surface       display.Surface
	Metrics       *metrics.Registry
	Observer      Observer
	Service       string
	Labels        Labels
	Interval      time.Duration
	ClockInterval time.Duration

	now   func() time.Time
	state domain.State
}

func NewWatcher(
	logger *zap.Logger,
	checker probe.Checker,
	surface display.Surface,
	service string,
	labels Labels,
	interval time.Duration,
	clockInterval time.Duration,
) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 12 * time.Second
	}
	if clockInterval <= 0 {
		clockInterval = time.Second
	}
	return &Watcher{
		Logger:        logger,
		Checker:       checker,
		Surface:       surface,
		Service:       service,
		Labels:        labels,
		Interval:      interval,
		ClockInterval: clockInterval,
		now:           time.Now,
		state: domain.State{
			Status: domain.Status{Level: domain.LevelPending, Text: labels.Checking()},
		},
	}
}

// Start shows the initial labels and schedules the poll and the clock.
// Both timers stop when the loop's Run returns.
func (w *Watcher) Start(loop *Loop) (poll, clock *Timer) {
	w.Surface.SetStatus(w.state.Status)
	w.Surface.SetClock("")
	w.Logger.Info("watcher_started",
		zap.String("service", w.Service),
		zap.Duration("interval", w.Interval),
		zap.Duration("clock_interval", w.ClockInterval),
	)
	return loop.Every(w.Interval, w.Poll), loop.Every(w.ClockInterval, w.Tick)
}

// Poll runs one check and updates the status label.
func (w *Watcher) Poll(ctx context.Context) {
	res := w.Checker.Check(ctx, w.Service)
	if ctx.Err() != nil {
		// shutting down; a cancelled check says nothing about the service
		return
	}
	done := w.now()

	st := domain.Status{CheckedAt: done}
	switch res.Outcome {
	case probe.OutcomeActive:
		w.state.LastSuccess = &done
		st.Level, st.Text = domain.LevelOK, w.Labels.Running()
	case probe.OutcomeInactive:
		st.Level, st.Text = domain.LevelFail, w.Labels.NotRunning()
	default:
		st.Level, st.Text = domain.LevelError, w.Labels.Failed(res.Message)
	}
	w.state.Status = st
	w.Surface.SetStatus(st)

	w.Metrics.ObserveCheck(res)
	if w.Observer != nil {
		w.Observer.Observe(ctx, res)
	}

	fields := []zap.Field{
		zap.String("service", w.Service),
		zap.String("outcome", string(res.Outcome)),
		zap.String("state", res.State),
		zap.Duration("duration", res.Duration),
	}
	if res.Outcome == probe.OutcomeError {
		w.Logger.Warn("check_failed", append(fields, zap.String("reason", res.Message))...)
		return
	}
	w.Logger.Debug("check_done", fields...)
}

// Tick refreshes the elapsed-time label.
func (w *Watcher) Tick(context.Context) {
	if w.state.LastSuccess == nil {
		w.Surface.SetClock(w.Labels.Waiting())
		return
	}
	w.Surface.SetClock(w.Labels.Elapsed(domain.ElapsedSeconds(*w.state.LastSuccess, w.now())))
}

// State returns the current state. Only safe on the loop goroutine or
// while the loop is not running.
func (w *Watcher) State() domain.State { return w.state }
