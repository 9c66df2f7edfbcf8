// Package service composes the leaderboard store with the asynchronous
// ingest pipeline: dedupe, rate limiting, queue and worker pool.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/okian/ladder/internal/adapters/mq/queue"
	"github.com/okian/ladder/internal/adapters/mq/worker"
	"github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/dedupe"
	"github.com/okian/ladder/internal/domain/leaderboard"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/search"
	"github.com/okian/ladder/internal/domain/sorting"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

// Service owns the leaderboard and everything that feeds it.
type Service struct {
	mu sync.RWMutex

	store   *repository.LockedStore
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	limiter *rate.Limiter // nil when unlimited

	sorterName       string
	searchName       string
	strictSearch     bool
	workerCount      int
	queueSize        int
	dedupeSize       int
	ingestRate       float64
	ingestBurst      int
	snapshotInterval time.Duration
	topCacheSize     int

	started bool
	stopped bool

	logger logger.Logger
}

// Stats is a point-in-time view of the service for monitoring.
type Stats struct {
	Started       bool   `json:"started" yaml:"started"`
	Sorter        string `json:"sorter" yaml:"sorter"`
	Search        string `json:"search" yaml:"search"`
	Workers       int    `json:"workers" yaml:"workers"`
	QueueCapacity int    `json:"queueCapacity" yaml:"queueCapacity"`
	QueueLength   int    `json:"queueLength" yaml:"queueLength"`
	Entities      int    `json:"entities" yaml:"entities"`
	Sorts         int    `json:"sorts" yaml:"sorts"`
	Processed     int64  `json:"processed" yaml:"processed"`
	Failed        int64  `json:"failed" yaml:"failed"`
	DedupeSize    int64  `json:"dedupeSize" yaml:"dedupeSize"`
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sorterName:       sorting.NameMerge,
		searchName:       search.NameBinary,
		workerCount:      runtime.NumCPU(),
		queueSize:        10_000,
		dedupeSize:       100_000,
		ingestBurst:      1_000,
		snapshotInterval: time.Second,
		topCacheSize:     10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the worker pool. Starting a running
// service is a no-op; a stopped service cannot be restarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.stopped:
		return ErrStopped
	case s.started:
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	sorter, err := sorting.New(s.sorterName)
	if err != nil {
		return err
	}
	strategy, err := s.newStrategy()
	if err != nil {
		return err
	}

	store, err := repository.NewLockedStore(ctx, sorter, strategy,
		repository.WithSnapshotInterval(s.snapshotInterval),
		repository.WithTopCacheSize(s.topCacheSize),
		repository.WithLogger(s.logger.Named("repository")),
	)
	if err != nil {
		return err
	}

	s.store = store
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, worker.WithPoolLogger(s.logger.Named("worker-pool")))
	if s.ingestRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(s.ingestRate), s.ingestBurst)
	}

	// The pool drains on Stop, so it must not inherit a caller deadline.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.String("sorter", sorter.Name()),
		logger.String("search", strategy.Name()),
		logger.Bool("strictSearch", s.strictSearch),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Float64("ingestRate", s.ingestRate),
	)
	return nil
}

func (s *Service) newStrategy() (search.Strategy, error) {
	if s.searchName == search.NameBinary && s.strictSearch {
		return search.NewBinary(search.WithStrictCheck()), nil
	}
	return search.New(s.searchName)
}

// Stop drains queued commands, stops the workers and the snapshot publisher.
// The leaderboard stays readable afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	s.pool.Stop()
	_ = s.store.Close()

	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "leaderboard service stopped",
		logger.Int64("processed", s.pool.Processed()),
		logger.Int64("failed", s.pool.Failed()),
	)
}

// Submit validates cmd and queues it for asynchronous application.
// Commands without an ID get a random one and are therefore never deduplicated.
func (s *Service) Submit(ctx context.Context, cmd model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}

	cmd, err := normalize(cmd)
	if err != nil {
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			metrics.RecordCommandRateLimited()
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	if s.deduper.SeenAndRecord(ctx, cmd.ID) {
		metrics.RecordCommandDuplicate()
		s.logger.Debug(ctx, "duplicate command skipped", logger.String("commandID", cmd.ID))
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.ID)
	}

	if !s.queue.Enqueue(ctx, cmd) {
		s.deduper.Unrecord(ctx, cmd.ID)
		return fmt.Errorf("%w: %s", ErrBackpressure, cmd.ID)
	}
	metrics.RecordCommandSubmitted()
	return nil
}

// Apply validates and applies cmd synchronously, bypassing the queue. A
// command that fails for a transient reason can be retried with the same ID.
func (s *Service) Apply(ctx context.Context, cmd model.Command) error { //nolint:gocritic // hugeParam: commands travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return ErrNotStarted
	}

	cmd, err := normalize(cmd)
	if err != nil {
		return err
	}
	if s.deduper.SeenAndRecord(ctx, cmd.ID) {
		metrics.RecordCommandDuplicate()
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.ID)
	}
	if err := worker.Apply(ctx, s.store, cmd); err != nil {
		if !worker.Permanent(err) {
			s.deduper.Unrecord(ctx, cmd.ID)
		}
		return err
	}
	return nil
}

func normalize(cmd model.Command) (model.Command, error) { //nolint:gocritic // hugeParam: commands travel by value
	op, err := model.ParseOp(string(cmd.Op))
	if err != nil {
		return cmd, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if cmd.Name == "" {
		return cmd, fmt.Errorf("%w: name must not be empty", ErrInvalidCommand)
	}
	cmd.Op = op
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	if cmd.TS.IsZero() {
		cmd.TS = time.Now()
	}
	return cmd, nil
}

// Read side. Every method delegates to the store.

func (s *Service) readStore() (*repository.LockedStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// TopN returns up to n leaders.
func (s *Service) TopN(ctx context.Context, n int) ([]model.Entity, error) {
	st, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return st.TopN(ctx, n)
}

// Rank returns the 1-based rank of name.
func (s *Service) Rank(ctx context.Context, name string) (int, error) {
	st, err := s.readStore()
	if err != nil {
		return 0, err
	}
	return st.Rank(ctx, name)
}

// AtRank returns the entity at rank.
func (s *Service) AtRank(ctx context.Context, rank int) (model.Entity, bool) {
	st, err := s.readStore()
	if err != nil {
		return model.Entity{}, false
	}
	return st.AtRank(ctx, rank)
}

// FindByName looks name up.
func (s *Service) FindByName(ctx context.Context, name string) (model.Entity, bool) {
	st, err := s.readStore()
	if err != nil {
		return model.Entity{}, false
	}
	return st.FindByName(ctx, name)
}

// FindInScoreRange returns entities with low <= score <= high in rank order.
func (s *Service) FindInScoreRange(ctx context.Context, low, high int) ([]model.Entity, error) {
	st, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return st.FindInScoreRange(ctx, low, high)
}

// Snapshot returns the full ranked order.
func (s *Service) Snapshot(ctx context.Context) ([]leaderboard.Standing, error) {
	st, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return st.Snapshot(ctx)
}

// Cached returns the last snapshot published by the store, or nil before Start.
func (s *Service) Cached() *repository.Snapshot {
	st, err := s.readStore()
	if err != nil {
		return nil
	}
	return st.Cached()
}

// Count returns the number of entities.
func (s *Service) Count(ctx context.Context) int {
	st, err := s.readStore()
	if err != nil {
		return 0
	}
	return st.Count(ctx)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:       s.started,
		Sorter:        s.sorterName,
		Search:        s.searchName,
		Workers:       s.workerCount,
		QueueCapacity: s.queueSize,
	}
	if s.store == nil {
		return stats
	}
	stats.QueueLength = s.queue.Len(ctx)
	stats.Entities = s.store.Count(ctx)
	stats.Sorts = s.store.SortCount()
	stats.Processed = s.pool.Processed()
	stats.Failed = s.pool.Failed()
	stats.DedupeSize = s.deduper.Size()

	metrics.UpdateEntityCount(stats.Entities)
	return stats
}
