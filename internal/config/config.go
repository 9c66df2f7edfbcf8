// Package config defines the ladder configuration and its loading.
//
// Values are layered defaults -> YAML file -> environment, see Load.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Sorter names the re-sort algorithm: merge, quick, builtin.
	Sorter string `koanf:"sorter"`

	// Search names the lookup strategy: linear, binary.
	Search string `koanf:"search"`

	// StrictSearch makes binary search verify the whole input is sorted.
	StrictSearch bool `koanf:"strict_search"`

	// QueueSize bounds the in-memory command queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of command workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many command IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// IngestRate limits submitted commands per second; 0 disables limiting.
	IngestRate  float64 `koanf:"ingest_rate"`
	IngestBurst int     `koanf:"ingest_burst"`

	// SnapshotIntervalMS sets how often the store publishes a snapshot; 0 disables it.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// TopCacheSize is the number of leaders kept in each snapshot.
	TopCacheSize int `koanf:"top_cache_size"`

	// Performance comparison parameters.
	CompareSize      int    `koanf:"compare_size"`
	CompareSeed      uint64 `koanf:"compare_seed"`
	CompareTopN      int    `koanf:"compare_top_n"`
	CompareRangeLow  int    `koanf:"compare_range_low"`
	CompareRangeHigh int    `koanf:"compare_range_high"`

	// Sampling intervals of the monitor tasks, in milliseconds.
	MonitorMemoryMS      int `koanf:"monitor_memory_ms"`
	MonitorGoroutinesMS  int `koanf:"monitor_goroutines_ms"`
	MonitorGCMS          int `koanf:"monitor_gc_ms"`
	MonitorLeaderboardMS int `koanf:"monitor_leaderboard_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Sorter:               "merge",
		Search:               "binary",
		QueueSize:            10_000,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           100_000,
		IngestRate:           0,
		IngestBurst:          1_000,
		SnapshotIntervalMS:   500,
		TopCacheSize:         10,
		CompareSize:          10_000,
		CompareSeed:          42,
		CompareTopN:          10,
		CompareRangeLow:      2_500,
		CompareRangeHigh:     7_500,
		MonitorMemoryMS:      1_000,
		MonitorGoroutinesMS:  1_000,
		MonitorGCMS:          2_000,
		MonitorLeaderboardMS: 1_000,
	}
}
