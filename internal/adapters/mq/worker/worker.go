// Package worker applies queued leaderboard commands to a store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
	"github.com/okian/ladder/pkg/stopwatch"
)

// ErrUnknownOp is returned for a command whose Op is not recognized.
var ErrUnknownOp = errors.New("unknown command op")

// Applier is the write side of the store.
type Applier interface {
	Add(ctx context.Context, name string, score int) error
	UpdateScore(ctx context.Context, name string, score int) error
	Remove(ctx context.Context, name string) error
}

// Apply executes one command against a.
func Apply(ctx context.Context, a Applier, cmd model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	switch cmd.Op {
	case model.OpAdd:
		return a.Add(ctx, cmd.Name, cmd.Score)
	case model.OpUpdate:
		return a.UpdateScore(ctx, cmd.Name, cmd.Score)
	case model.OpRemove:
		return a.Remove(ctx, cmd.Name)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

// Permanent reports whether a failed command must not be retried. Conflicts
// with the current leaderboard state are permanent.
func Permanent(err error) bool {
	return errors.Is(err, repository.ErrDuplicateName) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrInvalidName) ||
		errors.Is(err, ErrUnknownOp)
}

// InMemoryWorker applies the commands it reads from its inbox in order.
type InMemoryWorker struct {
	inbox   <-chan model.Command
	applier Applier
	name    string
	logger  logger.Logger

	processed atomic.Int64
	failed    atomic.Int64

	done chan struct{}
}

// NewInMemoryWorker creates a worker reading from inbox.
func NewInMemoryWorker(inbox <-chan model.Command, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		inbox:   inbox,
		applier: applier,
		name:    "worker",
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes commands until the inbox is closed or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-w.inbox:
			if !ok {
				return
			}
			_ = w.process(ctx, cmd)
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Processed returns the number of commands applied successfully.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

// Failed returns the number of commands that could not be applied.
func (w *InMemoryWorker) Failed() int64 { return w.failed.Load() }

func (w *InMemoryWorker) process(ctx context.Context, cmd model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	sw := stopwatch.Started()
	err := Apply(ctx, w.applier, cmd)
	took := sw.Stop()

	if err == nil {
		w.processed.Add(1)
		metrics.RecordWorkerApplied(string(cmd.Op), stopwatch.ToMilliseconds(took))
		return nil
	}

	w.failed.Add(1)
	metrics.RecordWorkerFailed(string(cmd.Op), repository.ErrorKind(err))
	fields := []logger.Field{
		logger.String("commandID", cmd.ID),
		logger.String("op", string(cmd.Op)),
		logger.String("name", cmd.Name),
		logger.Error(err),
	}
	if Permanent(err) {
		w.logger.Warn(ctx, "command rejected", fields...)
	} else {
		metrics.RecordErrorByComponent("worker", repository.ErrorKind(err))
		w.logger.Error(ctx, "command failed", fields...)
	}
	return err
}
