// Package loadgen drives a leaderboard service with generated commands from
// many goroutines and checks the final standings against the stream.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/ladder/internal/adapters/mq/worker"
	service "github.com/okian/ladder/internal/app"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/logger"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner executes one load run against a Target.
type Runner struct {
	target Target
	cfg    Config
	log    logger.Logger
}

// New returns a Runner for target.
func New(target Target, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		target: target,
		cfg:    cfg,
		log:    logger.Get().Named("loadgen"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates the commands, submits them, stops the target so every queued
// command is applied, and verifies the resulting standings. The target is
// stopped even when submission fails.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	r.log.Info(ctx, "starting load run",
		logger.Int("players", r.cfg.Players),
		logger.Int("updates", r.cfg.Updates),
		logger.Int("removes", r.cfg.Removes),
		logger.Int("submitters", r.cfg.Submitters))

	cmds, expected, err := Generate(r.cfg)
	if err != nil {
		r.target.Stop()
		return nil, err
	}
	stats.Generated = len(cmds)

	if r.cfg.OutputFile != "" {
		if err := saveCommands(r.cfg.OutputFile, cmds); err != nil {
			r.log.Warn(ctx, "failed to save commands to file", logger.Error(err))
		} else {
			r.log.Info(ctx, "commands saved to file", logger.String("filename", r.cfg.OutputFile))
		}
	}

	submitErr := r.submit(ctx, cmds, stats)
	r.target.Stop()
	if submitErr != nil {
		return stats, fmt.Errorf("command submission failed: %w", submitErr)
	}

	standings, err := r.target.Snapshot(ctx)
	if err != nil {
		return stats, fmt.Errorf("snapshot failed: %w", err)
	}
	stats.Standings = len(standings)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := Verify(standings, expected); err != nil {
		return stats, err
	}
	stats.Verified = true

	r.log.Info(ctx, "load run verified",
		logger.Int("standings", stats.Standings),
		logger.Int64("submitted", stats.Submitted),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

// submit fans the stream out to the submitters. Each player is owned by one
// submitter so its commands keep their order.
func (r *Runner) submit(ctx context.Context, cmds []model.Command, stats *Stats) error {
	n := r.cfg.Submitters
	parts := make([][]model.Command, n)
	for _, c := range cmds {
		i := worker.Shard(c.Name, n)
		parts[i] = append(parts[i], c)
	}

	var (
		submitted, duplicates, failed, retries atomic.Int64
		wg                                     sync.WaitGroup
		firstErr                               error
		errOnce                                sync.Once
	)
	for _, part := range parts {
		wg.Add(1)
		go func(part []model.Command) {
			defer wg.Done()
			for _, c := range part {
				err := r.target.Submit(ctx, c)
				for errors.Is(err, service.ErrBackpressure) && ctx.Err() == nil {
					retries.Add(1)
					time.Sleep(backpressureDelay)
					err = r.target.Submit(ctx, c)
				}
				switch {
				case err == nil:
					submitted.Add(1)
				case errors.Is(err, service.ErrDuplicateCommand):
					duplicates.Add(1)
				default:
					failed.Add(1)
					if ctx.Err() != nil || errors.Is(err, service.ErrStopped) || errors.Is(err, service.ErrNotStarted) {
						errOnce.Do(func() { firstErr = err })
						return
					}
					r.log.Debug(ctx, "command rejected", logger.String("commandID", c.ID), logger.Error(err))
				}
			}
		}(part)
	}
	wg.Wait()

	stats.Submitted = submitted.Load()
	stats.Duplicates = duplicates.Load()
	stats.Failed = failed.Load()
	stats.Retries = retries.Load()
	return firstErr
}

func saveCommands(filename string, cmds []model.Command) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cmds)
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}
