package repository

import (
	"time"

	"github.com/okian/ladder/pkg/logger"
)

// Option applies a configuration option to the LockedStore.
type Option func(*LockedStore)

// WithSnapshotInterval sets how often snapshots are published. Zero disables
// the background publisher; Publish can still be called directly.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *LockedStore) {
		if interval >= 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets how many leaders each snapshot caches.
func WithTopCacheSize(n int) Option {
	return func(s *LockedStore) {
		if n >= 0 {
			s.topCacheSize = n
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *LockedStore) {
		if l != nil {
			s.log = l
		}
	}
}
