package config

import (
	"fmt"
	"slices"

	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
)

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case !slices.Contains(sorting.Names(), c.Sorter):
		return fmt.Errorf("%w: unknown sorter %q", ErrInvalidConfig, c.Sorter)
	case !slices.Contains(search.Names(), c.Search):
		return fmt.Errorf("%w: unknown search %q", ErrInvalidConfig, c.Search)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.IngestRate < 0 || c.IngestBurst < 0:
		return fmt.Errorf("%w: ingest rate and burst must not be negative", ErrInvalidConfig)
	case c.SnapshotIntervalMS < 0 || c.TopCacheSize < 0:
		return fmt.Errorf("%w: snapshot settings must not be negative", ErrInvalidConfig)
	case c.CompareSize <= 0:
		return fmt.Errorf("%w: compare_size must be positive", ErrInvalidConfig)
	case c.CompareRangeLow > c.CompareRangeHigh:
		return fmt.Errorf("%w: compare_range_low exceeds compare_range_high", ErrInvalidConfig)
	case c.MonitorMemoryMS <= 0 || c.MonitorGoroutinesMS <= 0 || c.MonitorGCMS <= 0 || c.MonitorLeaderboardMS <= 0:
		return fmt.Errorf("%w: monitor intervals must be positive", ErrInvalidConfig)
	}
	return nil
}
