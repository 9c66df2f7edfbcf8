// Package monitor runs cancellable periodic sampling tasks keyed by kind.
//
// A Monitor owns its tasks: each runs in its own goroutine until Stop,
// StopAll or cancellation of the context it was started with. There is no
// package-level state; two monitors never share tasks.
package monitor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

// Kind identifies a periodic task.
type Kind string

// Built-in task kinds.
const (
	KindMemory      Kind = "memory"
	KindGoroutines  Kind = "goroutines"
	KindGC          Kind = "gc"
	KindLeaderboard Kind = "leaderboard"
)

// Task is one sampling step. It is called once on start and then on every tick.
type Task func(ctx context.Context)

type task struct {
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
}

func (t *task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Monitor is a set of periodic tasks.
type Monitor struct {
	mu    sync.Mutex
	tasks map[Kind]*task
	log   logger.Logger
}

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithLogger sets the monitor's logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates an empty monitor.
func New(opts ...Option) *Monitor {
	m := &Monitor{tasks: make(map[Kind]*task)}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get().Named("monitor")
	}
	return m
}

// Start runs fn every interval under kind. It fails with ErrAlreadyRunning if
// a task of that kind is still running.
func (m *Monitor) Start(ctx context.Context, kind Kind, interval time.Duration, fn Task) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, kind)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilTask, kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tasks[kind]; ok && !t.finished() {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, kind)
	}

	tctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{}), interval: interval}
	m.tasks[kind] = t

	go m.run(tctx, kind, t, fn)

	metrics.UpdateMonitorTasks(m.runningLocked())
	m.log.Debug(ctx, "monitor task started", logger.String("kind", string(kind)), logger.Duration("interval", interval))
	return nil
}

func (m *Monitor) run(ctx context.Context, kind Kind, t *task, fn Task) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	sample := func() {
		fn(ctx)
		metrics.RecordMonitorSample(string(kind))
	}
	sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample()
		}
	}
}

// Stop cancels the task of the given kind and waits for it. It reports
// whether a running task was stopped.
func (m *Monitor) Stop(kind Kind) bool {
	m.mu.Lock()
	t, ok := m.tasks[kind]
	if ok {
		delete(m.tasks, kind)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	wasRunning := !t.finished()
	t.cancel()
	<-t.done

	m.mu.Lock()
	metrics.UpdateMonitorTasks(m.runningLocked())
	m.mu.Unlock()
	return wasRunning
}

// StopAll cancels every task, waits for all of them and returns how many
// were still running.
func (m *Monitor) StopAll() int {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = make(map[Kind]*task)
	m.mu.Unlock()

	cancelled := 0
	for _, t := range tasks {
		if !t.finished() {
			cancelled++
		}
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}

	metrics.UpdateMonitorTasks(0)
	m.log.Debug(context.Background(), "monitor tasks stopped", logger.Int("cancelled", cancelled))
	return cancelled
}

// Running returns the kinds of the tasks still running, sorted.
func (m *Monitor) Running() []Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Kind, 0, len(m.tasks))
	for k, t := range m.tasks {
		if !t.finished() {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

func (m *Monitor) runningLocked() int {
	n := 0
	for _, t := range m.tasks {
		if !t.finished() {
			n++
		}
	}
	return n
}
