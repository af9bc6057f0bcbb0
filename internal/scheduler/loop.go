package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopStopped is returned by Run when it is called on a finished loop.
var ErrLoopStopped = errors.New("loop stopped")

// Loop runs callbacks one at a time on the goroutine that calls Run.
// Everything scheduled on it shares that goroutine, so callbacks never race
// with each other and a slow callback delays the rest.
type Loop struct {
	queue chan func(context.Context)
	done  chan struct{}
	once  sync.Once

	mu     sync.Mutex
	timers map[*Timer]struct{}
}

func NewLoop() *Loop {
	return &Loop{
		queue:  make(chan func(context.Context)),
		done:   make(chan struct{}),
		timers: make(map[*Timer]struct{}),
	}
}

// Run executes queued callbacks until ctx is cancelled, then stops every
// timer. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	defer l.close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn(ctx)
		}
	}
}

// Every runs fn on the loop now and then again interval after each run
// finishes, until the timer or the loop is stopped.
func (l *Loop) Every(interval time.Duration, fn func(context.Context)) *Timer {
	t := &Timer{loop: l, interval: interval, fn: fn}
	l.mu.Lock()
	l.timers[t] = struct{}{}
	l.mu.Unlock()
	go l.post(t.fire)
	return t
}

// post hands fn to the loop goroutine; it gives up once the loop is closed.
func (l *Loop) post(fn func(context.Context)) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

func (l *Loop) close() {
	l.once.Do(func() {
		close(l.done)
		l.mu.Lock()
		timers := make([]*Timer, 0, len(l.timers))
		for t := range l.timers {
			timers = append(timers, t)
		}
		l.mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	})
}

func (l *Loop) forget(t *Timer) {
	l.mu.Lock()
	delete(l.timers, t)
	l.mu.Unlock()
}

// Timer is a repeating callback on a Loop.
type Timer struct {
	loop     *Loop
	interval time.Duration
	fn       func(context.Context)

	mu      sync.Mutex
	next    *time.Timer
	stopped bool
	runs    int
}

// Stop cancels the next run. A run already executing finishes normally but
// does not schedule another.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.next != nil {
		t.next.Stop()
	}
	t.mu.Unlock()
	t.loop.forget(t)
}

// Runs reports how many times the callback has executed.
func (t *Timer) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

func (t *Timer) fire(ctx context.Context) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn(ctx)

	// reschedule exactly once per run
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs++
	if t.stopped {
		return
	}
	t.next = time.AfterFunc(t.interval, func() { t.loop.post(t.fire) })
}
