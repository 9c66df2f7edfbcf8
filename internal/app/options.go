package service

import (
	"time"

	"github.com/okian/ladder/internal/config"
	"github.com/okian/ladder/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSorter selects the re-sort algorithm by name (merge, quick, builtin).
func WithSorter(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.sorterName = name
		}
	}
}

// WithSearch selects the search strategy by name (linear, binary).
func WithSearch(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.searchName = name
		}
	}
}

// WithStrictSearch makes binary search verify its whole input.
func WithStrictSearch(strict bool) Option {
	return func(s *Service) {
		s.strictSearch = strict
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the command queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithIngestRate limits Submit to perSecond commands with the given burst.
// A zero rate disables limiting.
func WithIngestRate(perSecond float64, burst int) Option {
	return func(s *Service) {
		if perSecond >= 0 {
			s.ingestRate = perSecond
		}
		if burst > 0 {
			s.ingestBurst = burst
		}
	}
}

// WithSnapshotInterval sets how often the store publishes snapshots.
func WithSnapshotInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.snapshotInterval = d
		}
	}
}

// WithTopCacheSize sets how many leaders each snapshot caches.
func WithTopCacheSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.topCacheSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig applies every service setting found in cfg.
func FromConfig(cfg *config.Config) Option {
	return func(s *Service) {
		for _, opt := range []Option{
			WithSorter(cfg.Sorter),
			WithSearch(cfg.Search),
			WithStrictSearch(cfg.StrictSearch),
			WithWorkerCount(cfg.WorkerCount),
			WithQueueSize(cfg.QueueSize),
			WithDedupeSize(cfg.DedupeSize),
			WithIngestRate(cfg.IngestRate, cfg.IngestBurst),
			WithSnapshotInterval(time.Duration(cfg.SnapshotIntervalMS) * time.Millisecond),
			WithTopCacheSize(cfg.TopCacheSize),
		} {
			opt(s)
		}
	}
}
