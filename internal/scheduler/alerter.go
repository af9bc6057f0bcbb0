package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/wslwatch/internal/probe"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	SendTimeout     time.Duration
	QueueSize       int
}

type alert struct {
	service string
	up      bool
	title   string
	text    string
}

// Alerter notifies on up/down transitions of the watched service.
// Observe runs on the loop; a single sender goroutine delivers alerts in
// the order they were raised so a slow webhook cannot stall the widget.
type Alerter struct {
	logger   *zap.Logger
	notifier interface {
		Send(context.Context, string, string) error
	}
	cfg AlerterConfig
	now func() time.Time

	// last state that was reported, nil until the first check
	lastUp     *bool
	lastSentAt time.Time

	queue chan alert
	wg    sync.WaitGroup
}

func NewAlerter(
	logger *zap.Logger,
	notifier interface {
		Send(context.Context, string, string) error
	},
	cfg AlerterConfig,
) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}
	a := &Alerter{
		logger:   logger,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		queue:    make(chan alert, cfg.QueueSize),
	}
	go a.send()
	return a
}

func (a *Alerter) Observe(ctx context.Context, res probe.CheckResult) {
	up := res.Active()
	now := a.now()

	// Has the up/down state changed compared to what we last reported?
	// The very first observation only counts when it is a failure.
	stateChanged := (a.lastUp == nil && !up) || (a.lastUp != nil && *a.lastUp != up)
	if !stateChanged {
		return
	}

	if !up {
		// Cooldown only matters for DOWN alerts (suppresses flapping).
		// A suppressed outage stays pending until the cooldown ends.
		if !a.lastSentAt.IsZero() && now.Sub(a.lastSentAt) < a.cfg.Cooldown {
			return
		}
	}
	a.lastUp = &up
	if up && !a.cfg.AlertOnRecovery {
		return
	}
	a.lastSentAt = now

	title := "🔴 " + res.Service + " DOWN"
	if up {
		title = "🟢 " + res.Service + " RECOVERED"
	}
	detail := res.State
	if detail == "" {
		detail = res.Message
	}
	text := fmt.Sprintf("Service: %s\nOutcome: %s\nDetail: %s\nChecked: %s",
		res.Service, res.Outcome, detail, res.CheckedAt.Format(time.RFC3339))

	a.wg.Add(1)
	select {
	case a.queue <- alert{service: res.Service, up: up, title: title, text: text}:
	default:
		a.wg.Done()
		a.logger.Warn("alert_dropped", zap.String("service", res.Service), zap.Bool("up", up))
	}
}

func (a *Alerter) send() {
	for al := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.SendTimeout)
		// best effort
		if err := a.notifier.Send(ctx, al.title, al.text); err != nil {
			a.logger.Warn("alert_send_error", zap.String("service", al.service), zap.Error(err))
		} else {
			a.logger.Info("alert_sent", zap.String("service", al.service), zap.Bool("up", al.up))
		}
		cancel()
		a.wg.Done()
	}
}

// Wait blocks until queued alerts have been sent.
func (a *Alerter) Wait() { a.wg.Wait() }
