package loadgen

import (
	"context"
	"runtime"
	"time"

	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
)

// Config holds the shape of one load run.
type Config struct {
	Players    int    // distinct players added
	Updates    int    // score updates spread over the players
	Removes    int    // players removed after their updates
	Submitters int    // concurrent submitting goroutines
	Seed       uint64 // generator seed
	OutputFile string // optional YAML dump of the generated commands
}

// DefaultConfig returns a moderate run sized for a laptop.
func DefaultConfig() Config {
	return Config{
		Players:    10_000,
		Updates:    5_000,
		Removes:    500,
		Submitters: runtime.NumCPU() * submittersPerCPU,
		Seed:       1,
	}
}

// Target is the leaderboard service under load.
type Target interface {
	Submit(ctx context.Context, cmd model.Command) error
	Stop()
	Snapshot(ctx context.Context) ([]leaderboard.Standing, error)
}

// Stats holds run statistics.
type Stats struct {
	Generated  int           `json:"generated" yaml:"generated"`
	Submitted  int64         `json:"submitted" yaml:"submitted"`
	Duplicates int64         `json:"duplicates" yaml:"duplicates"`
	Failed     int64         `json:"failed" yaml:"failed"`
	Retries    int64         `json:"retries" yaml:"retries"`
	Standings  int           `json:"standings" yaml:"standings"`
	Verified   bool          `json:"verified" yaml:"verified"`
	StartTime  time.Time     `json:"start_time" yaml:"start_time"`
	EndTime    time.Time     `json:"end_time" yaml:"end_time"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration"`
}
