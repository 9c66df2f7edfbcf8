package monitor

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/ladder/pkg/metrics"
	"github.com/okian/ladder/pkg/stopwatch"
)

// Counter is anything that can report the leaderboard size.
type Counter interface {
	Count(ctx context.Context) int
}

// Intervals holds the sampling period of each built-in task.
type Intervals struct {
	Memory      time.Duration
	Goroutines  time.Duration
	GC          time.Duration
	Leaderboard time.Duration
}

// MemorySampler records heap memory in use.
func MemorySampler() Task {
	return func(context.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		metrics.UpdateSystemMemoryUsage(ms.HeapAlloc)
	}
}

// GoroutineSampler records the number of goroutines.
func GoroutineSampler() Task {
	return func(context.Context) {
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	}
}

// GCSampler records the GC cycle count and the pauses of every cycle that
// completed since the previous sample. Only the last 256 pauses are kept by
// the runtime, so older ones are skipped after a long gap.
func GCSampler() Task {
	var (
		mu     sync.Mutex
		lastGC uint32
	)
	return func(context.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		mu.Lock()
		defer mu.Unlock()

		from := lastGC
		if ms.NumGC-from > uint32(len(ms.PauseNs)) {
			from = ms.NumGC - uint32(len(ms.PauseNs))
		}
		for n := from; n < ms.NumGC; n++ {
			pause := time.Duration(ms.PauseNs[n%uint32(len(ms.PauseNs))])
			metrics.RecordSystemGCPauseTime(stopwatch.ToMilliseconds(pause))
		}
		lastGC = ms.NumGC
		metrics.UpdateSystemGCCount(ms.NumGC)
	}
}

// LeaderboardSampler records the number of entities in src.
func LeaderboardSampler(src Counter) Task {
	return func(ctx context.Context) {
		metrics.UpdateEntityCount(src.Count(ctx))
	}
}

// StartDefaults starts every built-in sampler. The leaderboard sampler is
// skipped when src is nil. On error the tasks already started keep running.
func (m *Monitor) StartDefaults(ctx context.Context, iv Intervals, src Counter) error {
	if err := m.Start(ctx, KindMemory, iv.Memory, MemorySampler()); err != nil {
		return err
	}
	if err := m.Start(ctx, KindGoroutines, iv.Goroutines, GoroutineSampler()); err != nil {
		return err
	}
	if err := m.Start(ctx, KindGC, iv.GC, GCSampler()); err != nil {
		return err
	}
	if src != nil {
		if err := m.Start(ctx, KindLeaderboard, iv.Leaderboard, LeaderboardSampler(src)); err != nil {
			return err
		}
	}
	return nil
}
