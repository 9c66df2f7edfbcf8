// Package stopwatch measures elapsed wall time for leaderboard operations.
//
// A Stopwatch may be reused sequentially (Start, Stop, Start, Stop) but one
// instance must not be shared by concurrent callers.
package stopwatch

import "time"

const nanosecondsPerMillisecond = 1e6

// Stopwatch captures monotonic start and stop timestamps.
type Stopwatch struct {
	start   time.Time
	elapsed time.Duration
	running bool
}

// New returns a stopped Stopwatch.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Started returns a Stopwatch that is already running.
func Started() *Stopwatch {
	s := New()
	s.Start()
	return s
}

// Start captures the start timestamp and clears any previous measurement.
func (s *Stopwatch) Start() {
	s.start = time.Now()
	s.elapsed = 0
	s.running = true
}

// Stop captures the stop timestamp and returns the elapsed duration. Stopping
// a stopwatch that is not running returns the last measurement.
func (s *Stopwatch) Stop() time.Duration {
	if s.running {
		s.elapsed = time.Since(s.start)
		s.running = false
	}
	return s.elapsed
}

// Elapsed returns the measured duration in nanoseconds (time.Duration's base
// unit). While running it reports the time since Start.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return time.Since(s.start)
	}
	return s.elapsed
}

// Running reports whether Start was called without a matching Stop.
func (s *Stopwatch) Running() bool { return s.running }

// Reset clears the stopwatch.
func (s *Stopwatch) Reset() {
	*s = Stopwatch{}
}

// ToMilliseconds converts a duration to fractional milliseconds for display.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / nanosecondsPerMillisecond
}

// Time runs fn and returns how long it took.
func Time(fn func()) time.Duration {
	s := Started()
	fn()
	return s.Stop()
}
