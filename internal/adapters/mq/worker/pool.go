package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

const defaultInboxSize = 64

// Source is where the pool reads commands from.
type Source interface {
	Dequeue(ctx context.Context) <-chan model.Command
}

// Pool fans commands out to a fixed set of workers. Every command for a given
// name goes to the same worker, so per-name submission order is preserved.
type Pool struct {
	workers []*InMemoryWorker
	inboxes []chan model.Command
	source  Source

	inboxSize int
	logger    logger.Logger

	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewPool creates a pool of workerCount workers (at least one).
func NewPool(workerCount int, source Source, applier Applier, opts ...PoolOption) *Pool {
	workerCount = max(workerCount, 1)

	p := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		inboxes:   make([]chan model.Command, workerCount),
		source:    source,
		inboxSize: defaultInboxSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}

	for i := range workerCount {
		p.inboxes[i] = make(chan model.Command, p.inboxSize)
		p.workers[i] = NewInMemoryWorker(
			p.inboxes[i],
			applier,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger.Named("worker-"+strconv.Itoa(i))),
		)
	}
	return p
}

// Shard returns the worker index that owns name.
func Shard(name string, workers int) int {
	return int(xxhash.Sum64String(name) % uint64(workers))
}

// Start launches the dispatcher and workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for _, w := range p.workers {
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				w.Run(ctx)
			}()
		}
		p.wg.Add(1)
		go p.dispatch(ctx)

		metrics.UpdateWorkerCount(len(p.workers))
		p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
	})
}

func (p *Pool) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer func() {
		for _, in := range p.inboxes {
			close(in)
		}
	}()

	commands := p.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			select {
			case p.inboxes[Shard(cmd.Name, len(p.inboxes))] <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Stop closes the source when it can be closed, lets the workers drain what
// was already queued and waits for them.
func (p *Pool) Stop() {
	_ = p.Shutdown(context.Background())
}

// Shutdown is Stop bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	start := time.Now()
	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		p.logger.Info(ctx, "worker pool stopped",
			logger.Int64("processed", p.Processed()),
			logger.Int64("failed", p.Failed()),
			logger.Duration("drain", time.Since(start)),
		)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of commands applied across all workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Failed returns the number of failed commands across all workers.
func (p *Pool) Failed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Failed()
	}
	return n
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }
